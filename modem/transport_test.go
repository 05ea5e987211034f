package modem

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.bug.st/serial"
	"go.uber.org/mock/gomock"
)

func TestSerialDialer_Dial_EmptyPortName(t *testing.T) {
	dialer := SerialDialer{
		PortName: "",
	}

	port, err := dialer.Dial(context.Background())

	if err == nil {
		t.Fatal("expected error for empty port name")
	}
	if port != nil {
		t.Error("expected nil port for empty port name")
	}
	if err.Error() != "nbiot: serial port name is required" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSerialDialer_Dial_NilContext(t *testing.T) {
	dialer := SerialDialer{
		PortName: "/dev/ttyS0",
	}

	//nolint:staticcheck // nil context is the case under test
	port, err := dialer.Dial(nil)

	if err == nil {
		t.Fatal("expected error for nil context")
	}
	if port != nil {
		t.Error("expected nil port for nil context")
	}
	if err.Error() != "nbiot: context is nil" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSerialDialer_Dial_ContextCanceled(t *testing.T) {
	dialer := SerialDialer{
		PortName: "/dev/nonexistent",
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port, err := dialer.Dial(ctx)

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if port != nil {
		t.Error("expected nil port for canceled context")
	}
}

func TestSerialDialer_Dial_WithMode(t *testing.T) {
	dialer := SerialDialer{
		PortName: "/dev/nonexistent",
		Mode: &serial.Mode{
			BaudRate: 9600,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		},
	}

	port, err := dialer.Dial(context.Background())

	if err == nil {
		t.Error("expected error for non-existent port")
	}
	if port != nil {
		t.Error("expected nil port for non-existent port")
	}
}

func TestLink_Open(t *testing.T) {
	t.Run("Dials once while open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockPort := NewMockPort(ctrl)
		mockDialer := NewMockDialer(ctrl)

		gomock.InOrder(
			mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil).Times(1),
			mockPort.EXPECT().Close().Return(nil),
		)

		link := NewLink(mockDialer, nil)
		for n := 0; n < 3; n++ {
			if err := link.Open(context.Background()); err != nil {
				t.Fatalf("unexpected error from Open(): %v", err)
			}
		}
		if !link.IsOpen() {
			t.Error("link should be open")
		}
		if err := link.Close(); err != nil {
			t.Errorf("unexpected error from Close(): %v", err)
		}
		if err := link.Close(); err != nil {
			t.Errorf("second Close() should be a no-op, got: %v", err)
		}
	})

	t.Run("Dial failure is an IOError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		dialErr := errors.New("permission denied")
		mockDialer := NewMockDialer(ctrl)
		mockDialer.EXPECT().Dial(gomock.Any()).Return(nil, dialErr)

		link := NewLink(mockDialer, nil)
		err := link.Open(context.Background())

		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("expected IOError, got: %v", err)
		}
		if ioErr.Op != "open" {
			t.Errorf("expected op open, got %q", ioErr.Op)
		}
		if !errors.Is(err, dialErr) {
			t.Error("IOError should wrap the dial error")
		}
		if link.IsOpen() {
			t.Error("link should stay closed")
		}
	})
}

func TestLink_Shutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPort := NewMockPort(ctrl)
	mockDialer := NewMockDialer(ctrl)

	gomock.InOrder(
		mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil).Times(1),
		mockPort.EXPECT().Close().Return(nil),
	)

	link := NewLink(mockDialer, nil)
	if err := link.Open(context.Background()); err != nil {
		t.Fatalf("unexpected error from Open(): %v", err)
	}
	if err := link.Shutdown(); err != nil {
		t.Fatalf("unexpected error from Shutdown(): %v", err)
	}

	if err := link.Open(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("expected ErrAlreadyClosed from Open(), got: %v", err)
	}
	if err := link.WriteCommand(context.Background(), "AT"); err != ErrAlreadyClosed {
		t.Errorf("expected ErrAlreadyClosed from WriteCommand(), got: %v", err)
	}
	if _, err := link.Drain(); err != ErrAlreadyClosed {
		t.Errorf("expected ErrAlreadyClosed from Drain(), got: %v", err)
	}
	if link.IsOpen() {
		t.Error("link should stay closed")
	}
}

func TestLink_Write(t *testing.T) {
	t.Run("Closed link", func(t *testing.T) {
		link := NewLink(NewTestPort(), nil)

		if err := link.WriteCommand(context.Background(), "AT"); err != ErrLinkClosed {
			t.Errorf("expected ErrLinkClosed, got: %v", err)
		}
	})

	t.Run("Resets input before writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockPort := NewMockPort(ctrl)
		mockDialer := NewMockDialer(ctrl)

		gomock.InOrder(
			mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil),
			mockPort.EXPECT().ResetInputBuffer().Return(nil),
			mockPort.EXPECT().Write([]byte("AT+CGMR\r")).Return(8, nil),
		)

		link := NewLink(mockDialer, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}
		if err := link.WriteCommand(context.Background(), "AT+CGMR"); err != nil {
			t.Errorf("unexpected error from WriteCommand(): %v", err)
		}
	})

	t.Run("Write failure is an IOError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockPort := NewMockPort(ctrl)
		mockDialer := NewMockDialer(ctrl)

		gomock.InOrder(
			mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil),
			mockPort.EXPECT().ResetInputBuffer().Return(nil),
			mockPort.EXPECT().Write(gomock.Any()).Return(0, io.ErrClosedPipe),
		)

		link := NewLink(mockDialer, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}

		err := link.WriteCommand(context.Background(), "AT")
		var ioErr *IOError
		if !errors.As(err, &ioErr) || ioErr.Op != "write" {
			t.Errorf("expected write IOError, got: %v", err)
		}
	})

	t.Run("Short write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockPort := NewMockPort(ctrl)
		mockDialer := NewMockDialer(ctrl)

		gomock.InOrder(
			mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil),
			mockPort.EXPECT().ResetInputBuffer().Return(nil),
			mockPort.EXPECT().Write(gomock.Any()).Return(1, nil),
		)

		link := NewLink(mockDialer, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}

		if err := link.WriteCommand(context.Background(), "AT"); !errors.Is(err, io.ErrShortWrite) {
			t.Errorf("expected io.ErrShortWrite, got: %v", err)
		}
	})
}

func TestLink_Drain(t *testing.T) {
	t.Run("Reads until the port runs dry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockPort := NewMockPort(ctrl)
		mockDialer := NewMockDialer(ctrl)

		gomock.InOrder(
			mockDialer.EXPECT().Dial(gomock.Any()).Return(mockPort, nil),
			mockPort.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
				return copy(p, "+CSQ:"), nil
			}),
			mockPort.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
				return copy(p, "31,99\r\n"), nil
			}),
			mockPort.EXPECT().Read(gomock.Any()).Return(0, nil),
		)

		link := NewLink(mockDialer, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}

		got, err := link.Drain()
		if err != nil {
			t.Fatalf("unexpected error from Drain(): %v", err)
		}
		if got != "+CSQ:31,99\r\n" {
			t.Errorf("unexpected drain result %q", got)
		}
	})

	t.Run("Invalid bytes are replaced", func(t *testing.T) {
		port := NewTestPort()
		port.Feed("OK\xff\r\n")

		link := NewLink(port, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}

		got, err := link.Drain()
		if err != nil {
			t.Fatalf("unexpected error from Drain(): %v", err)
		}
		if got != "OK�\r\n" {
			t.Errorf("unexpected drain result %q", got)
		}
	})

	t.Run("Read failure is an IOError", func(t *testing.T) {
		port := NewTestPort()
		port.ReadErr = errors.New("device unplugged")

		link := NewLink(port, nil)
		if err := link.Open(context.Background()); err != nil {
			t.Fatalf("unexpected error from Open(): %v", err)
		}

		_, err := link.Drain()
		var ioErr *IOError
		if !errors.As(err, &ioErr) || ioErr.Op != "read" {
			t.Errorf("expected read IOError, got: %v", err)
		}
	})
}
