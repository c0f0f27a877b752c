package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// ParseError locates a failure inside a print stream or capture.
type ParseError struct {
	Source  string
	Offset  int64
	Dialect string
	Err     error
}

func (e *ParseError) Error() string {
	var buf strings.Builder
	if e.Source != "" {
		buf.WriteString(e.Source + ": ")
	}
	fmt.Fprintf(&buf, "offset 0x%08X", e.Offset)
	if e.Dialect != "" {
		buf.WriteString(" (" + e.Dialect + ")")
	}
	if e.Err != nil {
		buf.WriteString(": " + e.Err.Error())
	}
	return buf.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParseError attaches a stream position to err.
func WrapParseError(err error, source string, offset int64, dialect string) error {
	if err == nil {
		return nil
	}
	return &ParseError{Source: source, Offset: offset, Dialect: dialect, Err: err}
}

// WrapPrinterError wraps printer transport errors with user-friendly context
func WrapPrinterError(err error, driver, address string) error {
	if err == nil {
		return nil
	}

	hint := "The printer may be offline, busy with another job, or not accept raw print data"
	switch driver {
	case "serial":
		hint = "Check the serial device path, baud rate and that no other program holds the port open"
	case "usb":
		hint = "Check the USB vendor:product id and that the kernel usblp driver has released the device"
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to communicate with printer %s (%s)", address, driver),
		Reason:  extractNetworkReason(err),
		Hint:    hint,
		Try:     fmt.Sprintf("pclscope status --driver %s --address %s", driver, address),
		Err:     err,
	}
}

// WrapSNMPError wraps SNMP errors raised while reading PML objects
func WrapSNMPError(err error, target, oid string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("PML query %s on %s failed", oid, target),
		Reason:  extractSNMPReason(err),
		Hint:    "SNMP may be disabled on the printer, or the community string may be wrong",
		Try:     fmt.Sprintf("pclscope pml-query --target %s --community public %s", target, oid),
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Delete the file to have a default configuration written on next start",
		Try:     fmt.Sprintf("pclscope config show --config %s", configPath),
		Err:     err,
	}
}

// WrapCaptureError wraps errors reading a pcap or pcapng file
func WrapCaptureError(err error, path string) error {
	if err == nil {
		return nil
	}

	reason := "Capture could not be read"
	var pe *ParseError
	if errors.As(err, &pe) {
		reason = fmt.Sprintf("Capture is malformed at offset 0x%08X", pe.Offset)
	} else if strings.Contains(err.Error(), "unknown magic") || strings.Contains(err.Error(), "Unknown magic") {
		reason = "File is not a pcap or pcapng capture"
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to extract print data from %s", path),
		Reason:  reason,
		Hint:    "Only TCP traffic to raw (9100) and LPD (515) printer ports is extracted",
		Try:     fmt.Sprintf("pclscope pcap-extract --port 9100 %s", path),
		Err:     err,
	}
}

func extractNetworkReason(err error) string {
	errStr := err.Error()

	// Common network error patterns
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Connection timeout - printer may be offline or unreachable"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused - printer may not be listening on this port"
	}
	if strings.Contains(errStr, "no route to host") {
		return "No route to host - network routing issue or printer unreachable"
	}
	if strings.Contains(errStr, "connection reset") {
		return "Connection reset - printer closed the connection unexpectedly"
	}
	if strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied") {
		return "Permission denied - the device node is not accessible to this user"
	}
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not found") {
		return "Device not found"
	}

	return "Printer communication failed"
}

func extractSNMPReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "Request timeout") {
		return "No SNMP response within timeout period"
	}
	if strings.Contains(errStr, "NoSuchObject") || strings.Contains(errStr, "NoSuchInstance") {
		return "Printer does not expose this PML object"
	}
	if strings.Contains(errStr, "decode") || strings.Contains(errStr, "unmarshal") {
		return "Received invalid or malformed SNMP response"
	}

	return "SNMP request failed"
}
