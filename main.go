package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
	"i4.energy/across/nbiot/modem"
)

// app carries what every subcommand needs once flags have been parsed
type app struct {
	configFile string
	config     *Config
	logger     *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "nbiot",
		Short:        "Drive an NB-IoT shield over its serial AT interface",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	flags.String("serial-port", "/dev/ttyS0", "Serial port the shield is attached to")
	flags.Int("baud-rate", 115200, "Baud rate for serial communication")
	flags.Duration("timeout", 0, "Time to wait for a reply before retransmitting (default 3s)")
	flags.Int("max-retries", 0, "Retransmissions before giving up, 0 retries forever")
	flags.String("target-ip", "", "UDP destination address")
	flags.String("target-port", "", "UDP port, local and remote")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, console)")
	flags.String("log-output", "stderr", "Log output (stdout, stderr or a file path)")

	root.AddCommand(
		a.infoCommand(),
		a.attachCommand(),
		a.atCommand(),
		a.sendCommand(),
		a.resetCommand(),
		a.serveCommand(),
		a.bridgeCommand(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	v, err := NewViper(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.config, err = LoadConfig(WithDefaults(), WithViper(v))
	if err != nil {
		return err
	}
	a.logger, err = NewLogger(a.config.Log)
	return err
}

// openShield creates the shield described by the configuration. The serial
// port itself is opened by the first command.
func (a *app) openShield() (*modem.Shield, error) {
	cfg := a.config

	modemConfig, err := modem.NewConfigBuilder().
		WithDialer(modem.SerialDialer{
			PortName:    cfg.Serial.Port,
			BaudRate:    cfg.Serial.BaudRate,
			ReadTimeout: cfg.Serial.ReadTimeout,
		}).
		WithATTimeout(cfg.Modem.Timeout).
		WithAttachTimeout(cfg.Modem.AttachTimeout).
		WithPollInterval(cfg.Modem.PollInterval).
		WithStepDelay(cfg.Modem.StepDelay).
		WithMaxRetries(cfg.Modem.MaxRetries).
		WithCloseAfterMatch(cfg.Modem.CloseAfterMatch).
		WithLogger(a.logger).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create shield config: %w", err)
	}

	s, err := modem.New(modemConfig)
	if err != nil {
		return nil, err
	}
	s.SetIPAddress(cfg.Target.IPAddress)
	s.SetPort(cfg.Target.Port)
	s.SetDomainName(cfg.Target.DomainName)
	return s, nil
}

// withShield runs fn against a freshly created shield and closes it after.
func (a *app) withShield(fn func(s *modem.Shield) error) error {
	s, err := a.openShield()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.logger.Error("Failed to close shield", zap.Error(err))
		}
	}()
	return fn(s)
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print IMEI, firmware, hardware and signal quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return a.withShield(func(s *modem.Shield) error {
				resp, err := s.IMEI(ctx)
				if err != nil {
					return err
				}
				imei, _ := at.ParseIMEI(resp)

				firmware, err := s.FirmwareInfo(ctx)
				if err != nil {
					return err
				}
				hardware, err := s.HardwareInfo(ctx)
				if err != nil {
					return err
				}
				csq, err := s.SignalQuality(ctx)
				if err != nil {
					return err
				}
				rssi, ber, _ := at.ParseSignalQuality(csq)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "IMEI:     %s\n", imei)
				fmt.Fprintf(out, "Firmware: %s\n", infoLine(firmware))
				fmt.Fprintf(out, "Hardware: %s\n", infoLine(hardware))
				fmt.Fprintf(out, "Signal:   rssi=%d ber=%d\n", rssi, ber)
				return nil
			})
		},
	}
}

func (a *app) attachCommand() *cobra.Command {
	var (
		operator    bool
		autoConnect bool
	)

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach the module to the NB-IoT network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return a.withShield(func(s *modem.Shield) error {
				if cmd.Flags().Changed("autoconnect") {
					if _, err := s.SetAutoConnect(ctx, at.FlagOf(autoConnect)); err != nil {
						return err
					}
				}

				attach := s.AttachNetwork
				if operator {
					attach = s.ConnectToOperator
				}
				resp, err := attach(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&operator, "operator", false, "Attach without detaching first and report the signal quality")
	cmd.Flags().BoolVar(&autoConnect, "autoconnect", false, "Also set automatic attach at boot")
	return cmd
}

func (a *app) atCommand() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "at <command>",
		Short: "Send a raw AT command and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withShield(func(s *modem.Shield) error {
				resp, err := s.SendATComm(cmd.Context(), args[0], expect+at.CRLF)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&expect, "expect", at.OK, "Line that completes the command")
	return cmd
}

func (a *app) sendCommand() *cobra.Command {
	var keepOpen bool

	cmd := &cobra.Command{
		Use:   "send <payload>",
		Short: "Send one UDP datagram to the configured target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.config.Target.IPAddress == "" || a.config.Target.Port == "" {
				return errors.New("target ip and port are required")
			}

			return a.withShield(func(s *modem.Shield) error {
				if _, err := s.StartUDPService(ctx); err != nil {
					return err
				}
				resp, err := s.SendDataUDP(ctx, []byte(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), resp)

				if keepOpen {
					return nil
				}
				_, err = s.CloseConnection(ctx)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave the UDP socket open after sending")
	return cmd
}

func (a *app) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Save the configuration and reboot the module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withShield(func(s *modem.Shield) error {
				resp, err := s.ResetModule(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the shield over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return a.withShield(func(s *modem.Shield) error {
				gin.SetMode(gin.ReleaseMode)
				httpServer := &http.Server{
					Addr:    a.config.HTTP.BindAddress,
					Handler: NewServer(s, a.logger.With(zap.String("component", "server"))),
				}

				errc := make(chan error, 1)
				go func() {
					a.logger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
					if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errc <- err
					}
					close(errc)
				}()

				select {
				case err := <-errc:
					return fmt.Errorf("http server failed: %w", err)
				case <-ctx.Done():
				}

				a.logger.Info("Closing HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.HTTP.ShutdownTimeout)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})
		},
	}
	cmd.Flags().String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	return cmd
}

func (a *app) bridgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge",
		Short: "Forward MQTT messages as UDP datagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withShield(func(s *modem.Shield) error {
				b := NewBridge(a.config.MQTT, s, a.logger.With(zap.String("component", "bridge")))
				return b.Run(cmd.Context())
			})
		},
	}
}
