package pmlsnmp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/tturner/pclscope/internal/config"
	cserrors "github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/logging"
)

// Client queries PML objects on one printer.
type Client struct {
	target string
	snmp   *gosnmp.GoSNMP
	logger *logging.Logger
}

// New builds a client for target ("host" or "host:port") from the snmp
// section of the configuration. It does not contact the device.
func New(target string, cfg config.SNMPConfig, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	host, port := target, cfg.Port
	if h, p, err := net.SplitHostPort(target); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid SNMP port in %q", target)
		}
		host, port = h, n
	}
	if host == "" {
		return nil, fmt.Errorf("SNMP target is empty")
	}
	if port == 0 {
		port = 161
	}

	var version gosnmp.SnmpVersion
	switch cfg.Version {
	case "1":
		version = gosnmp.Version1
	case "", "2c":
		version = gosnmp.Version2c
	default:
		return nil, fmt.Errorf("unsupported SNMP version %q", cfg.Version)
	}
	community := cfg.Community
	if community == "" {
		community = "public"
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &Client{
		target: target,
		logger: logger,
		snmp: &gosnmp.GoSNMP{
			Target:             host,
			Port:               uint16(port),
			Community:          community,
			Version:            version,
			Timeout:            timeout,
			Retries:            cfg.Retries,
			MaxOids:            gosnmp.MaxOids,
			MaxRepetitions:     20,
			ExponentialTimeout: false,
		},
	}, nil
}

// Connect opens the UDP socket.
func (c *Client) Connect(ctx context.Context) error {
	c.snmp.Context = ctx
	if err := c.snmp.Connect(); err != nil {
		return cserrors.WrapSNMPError(err, c.target, EnterpriseOID)
	}
	c.logger.Verbose("SNMP %s:%d ready (community %q)", c.snmp.Target, c.snmp.Port, c.snmp.Community)
	return nil
}

// Close releases the socket.
func (c *Client) Close() error {
	if c.snmp.Conn == nil {
		return nil
	}
	return c.snmp.Conn.Close()
}

// Get reads the given PML objects. Requests are batched to the agent's
// OID limit; values come back in request order.
func (c *Client) Get(ctx context.Context, pmlOIDs ...string) ([]Value, error) {
	if len(pmlOIDs) == 0 {
		return nil, nil
	}
	oids := make([]string, len(pmlOIDs))
	for i, p := range pmlOIDs {
		oid, err := ToSNMP(p)
		if err != nil {
			return nil, err
		}
		oids[i] = oid
	}

	c.snmp.Context = ctx
	batch := c.snmp.MaxOids
	if batch <= 0 {
		batch = gosnmp.MaxOids
	}
	values := make([]Value, 0, len(oids))
	for start := 0; start < len(oids); start += batch {
		end := min(start+batch, len(oids))
		began := time.Now()
		pkt, err := c.snmp.Get(oids[start:end])
		if err != nil {
			return values, cserrors.WrapSNMPError(err, c.target, pmlOIDs[start])
		}
		if pkt.Error != gosnmp.NoError {
			return values, cserrors.WrapSNMPError(
				fmt.Errorf("agent returned %s at index %d", pkt.Error, pkt.ErrorIndex),
				c.target, pmlOIDs[start])
		}
		c.logger.Debug("SNMP GET %d oids from %s in %s", end-start, c.target, time.Since(began).Round(time.Millisecond))
		for _, pdu := range pkt.Variables {
			values = append(values, Decode(pdu))
		}
	}
	return values, nil
}

// Walk reads every PML object under root, using GETBULK on v2c.
func (c *Client) Walk(ctx context.Context, root string) ([]Value, error) {
	oid, err := ToSNMP(root)
	if err != nil {
		return nil, err
	}
	c.snmp.Context = ctx

	var values []Value
	collect := func(pdu gosnmp.SnmpPDU) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		values = append(values, Decode(pdu))
		return nil
	}
	began := time.Now()
	if c.snmp.Version == gosnmp.Version1 {
		err = c.snmp.Walk(oid, collect)
	} else {
		err = c.snmp.BulkWalk(oid, collect)
	}
	if err != nil {
		return values, cserrors.WrapSNMPError(err, c.target, root)
	}
	c.logger.Verbose("SNMP walk %s on %s: %d objects in %s", root, c.target, len(values), time.Since(began).Round(time.Millisecond))
	return values, nil
}
