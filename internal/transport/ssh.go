package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// sshTarget is a parsed spool host address: [ssh://][user@]host[:port][/queue].
type sshTarget struct {
	User  string
	Host  string
	Port  int
	Queue string
}

func parseSSHAddress(address string) (sshTarget, error) {
	if !strings.Contains(address, "://") {
		address = "ssh://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return sshTarget{}, fmt.Errorf("parse ssh address: %w", err)
	}
	if u.Scheme != "ssh" {
		return sshTarget{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	t := sshTarget{Host: u.Hostname(), Port: 22, Queue: strings.Trim(u.Path, "/")}
	if t.Host == "" {
		return sshTarget{}, fmt.Errorf("ssh address %q has no host", address)
	}
	if u.User != nil {
		t.User = u.User.Username()
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return sshTarget{}, fmt.Errorf("invalid ssh port %q", p)
		}
		t.Port = port
	}
	return t, nil
}

// spoolCommand is the remote command that accepts the job on stdin.
func spoolCommand(queue string) string {
	args := []string{"lp", "-o", "raw"}
	if queue != "" {
		args = append(args, "-d", queue)
	}
	args = append(args, "-")
	for i, a := range args {
		if needsQuoting(a) {
			args[i] = "'" + strings.ReplaceAll(a, "'", "'\\''") + "'"
		}
	}
	return strings.Join(args, " ")
}

// needsQuoting returns true if the string needs shell quoting.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '"', '\'', '\\', '$', '`', '!', '*', '?', '[', ']', '(', ')', '{', '}', '<', '>', '|', '&', ';':
			return true
		}
	}
	return false
}

// sshSpool streams a job into lp on a remote host. Close ends the job and
// reports lp's exit status.
type sshSpool struct {
	mu      sync.Mutex
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	stdout  io.Reader
	stderr  bytes.Buffer
	closed  bool
}

func openSSH(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error) {
	target, err := parseSSHAddress(address)
	if err != nil {
		return nil, err
	}
	if opts.User != "" {
		target.User = opts.User
	}
	if opts.Queue != "" {
		target.Queue = opts.Queue
	}

	config, err := buildSSHConfig(target, opts)
	if err != nil {
		return nil, fmt.Errorf("build SSH config: %w", err)
	}

	addr := net.JoinHostPort(target.Host, strconv.Itoa(target.Port))
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SSH handshake: %w", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}
	s := &sshSpool{client: client, session: session}
	session.Stderr = &s.stderr
	if s.stdin, err = session.StdinPipe(); err == nil {
		s.stdout, err = session.StdoutPipe()
	}
	if err == nil {
		err = session.Start(spoolCommand(target.Queue))
	}
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("start spooler: %w", err)
	}
	return s, nil
}

func (s *sshSpool) Write(p []byte) (int, error) {
	return s.stdin.Write(p)
}

func (s *sshSpool) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *sshSpool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.stdin.Close()
	err := s.session.Wait()
	s.client.Close()
	if err != nil {
		if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
			return fmt.Errorf("remote spooler: %s: %w", msg, err)
		}
		return fmt.Errorf("remote spooler: %w", err)
	}
	return nil
}

func buildSSHConfig(target sshTarget, opts Options) (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	if agentAuth := sshAgentAuth(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}
	if opts.KeyFile != "" {
		keyAuth, err := publicKeyAuth(opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("key file auth: %w", err)
		}
		authMethods = append(authMethods, keyAuth)
	} else {
		for _, keyPath := range defaultKeyPaths() {
			if keyAuth, err := publicKeyAuth(keyPath); err == nil {
				authMethods = append(authMethods, keyAuth)
				break
			}
		}
	}
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no authentication methods available")
	}

	hostKeyCallback, err := hostKeyCallback(opts)
	if err != nil {
		return nil, err
	}

	user := target.User
	if user == "" {
		user = os.Getenv("USER")
		if user == "" {
			user = os.Getenv("USERNAME")
		}
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.Timeout,
	}, nil
}

// hostKeyCallback verifies against known_hosts; a missing file is an error
// unless InsecureIgnoreHost is set.
func hostKeyCallback(opts Options) (ssh.HostKeyCallback, error) {
	if opts.InsecureIgnoreHost {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path := opts.KnownHostsFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("known hosts: %w", err)
	}
	return cb, nil
}

// sshAgentAuth returns an agent authentication method when SSH_AUTH_SOCK is set.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers)
}

func publicKeyAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

func defaultKeyPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_rsa"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
	}
}
