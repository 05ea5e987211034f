package at

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Fixed commands of the BC95 command set.
const (
	CmdAt            = "AT"
	CmdIMEI          = "AT+CGSN=1"
	CmdFirmware      = "AT+CGMR"
	CmdHardware      = "AT+CGMM"
	CmdSignalQuality = "AT+CSQ"
	CmdSave          = "AT&W"
	CmdReboot        = "AT+NRB"
	CmdDetach        = "AT+CGATT=0"
	CmdAttach        = "AT+CGATT=1"
	CmdAttachStatus  = "AT+CGATT?"

	cmdNConfig     = "AT+NCONFIG="
	cmdSocketOpen  = "AT+NSOCR=DGRAM,17,"
	cmdSocketSend  = "AT+NSOST="
	cmdSocketClose = "AT+NSOCL="
)

// NCONFIG keys.
const (
	ConfigAutoConnect = "AUTOCONNECT"
	ConfigScrambling  = "CR_0354_0338_SCRAMBLING"
)

// NConfig builds an AT+NCONFIG command setting key to flag.
func NConfig(key string, flag Flag) string {
	return cmdNConfig + key + "," + string(flag)
}

// SocketOpen builds the command creating a UDP socket bound to localPort.
// Incoming datagrams are not reported on the created socket.
func SocketOpen(localPort string) string {
	return cmdSocketOpen + localPort + ",0"
}

// SocketSend builds the command sending payload from socket to ip:port.
// The payload travels as upper-case hex, its length is the raw byte count.
func SocketSend(socket int, ip, port string, payload []byte) string {
	return fmt.Sprintf("%s%d,%s,%s,%d,%s",
		cmdSocketSend, socket, ip, port, len(payload), HexPayload(payload))
}

// SocketClose builds the command closing socket.
func SocketClose(socket int) string {
	return cmdSocketClose + strconv.Itoa(socket)
}

// HexPayload renders payload as the upper-case hex string the module expects.
func HexPayload(payload []byte) string {
	return strings.ToUpper(hex.EncodeToString(payload))
}

// Verb returns the command name without its arguments, e.g. "AT+NSOST" for
// "AT+NSOST=0,1.2.3.4,5683,2,AB".
func Verb(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if i := strings.IndexAny(cmd, "=?"); i >= 0 {
		return cmd[:i]
	}
	return cmd
}
