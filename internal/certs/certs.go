// Package certs manages the self-signed localhost certificate used to serve the
// stub prediction server over HTTPS.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	certFileName = "localhost.crt"
	keyFileName  = "localhost.key"

	// Validity is how long a generated certificate is valid.
	Validity = 365 * 24 * time.Hour
)

// ErrNoCertificates is returned when a PEM file holds no certificate.
var ErrNoCertificates = errors.New("no certificates found")

// FileManager keeps a certificate and key pair in a directory.
type FileManager struct {
	dir string
}

// NewFileManager creates a FileManager rooted at dir.
func NewFileManager(dir string) *FileManager {
	return &FileManager{dir: dir}
}

// CertFile is the path of the PEM certificate. Clients can trust it with LoadCertPool.
func (m *FileManager) CertFile() string {
	return filepath.Join(m.dir, certFileName)
}

// KeyFile is the path of the PEM private key.
func (m *FileManager) KeyFile() string {
	return filepath.Join(m.dir, keyFileName)
}

// GetOrCreate returns the stored certificate, generating a new one when it is
// missing, unreadable, expired or not valid for localhost.
func (m *FileManager) GetOrCreate() (tls.Certificate, error) {
	exists, err := m.Exists()
	if err != nil {
		return tls.Certificate{}, err
	}
	if exists {
		cert, loadErr := tls.LoadX509KeyPair(m.CertFile(), m.KeyFile())
		if loadErr == nil && verify(cert, time.Now()) == nil {
			return cert, nil
		}
		if err := m.remove(); err != nil {
			return tls.Certificate{}, err
		}
	}
	return m.generate()
}

// Exists reports whether both the certificate and the key file are present.
func (m *FileManager) Exists() (bool, error) {
	for _, path := range []string{m.CertFile(), m.KeyFile()} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	return true, nil
}

func (m *FileManager) generate() (tls.Certificate, error) {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := time.Now()
	// Self-signed and marked as a CA so clients can pin it as their only root.
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"loanwise development stub"},
			CommonName:   "localhost",
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:              []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to encode private key: %w", err)
	}

	if err := writePEM(m.CertFile(), "CERTIFICATE", certDER); err != nil {
		return tls.Certificate{}, err
	}
	if err := writePEM(m.KeyFile(), "EC PRIVATE KEY", keyDER); err != nil {
		return tls.Certificate{}, err
	}

	return tls.LoadX509KeyPair(m.CertFile(), m.KeyFile())
}

func writePEM(path, blockType string, der []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// verify checks that cert is usable for localhost at now.
func verify(cert tls.Certificate, now time.Time) error {
	if len(cert.Certificate) == 0 {
		return ErrNoCertificates
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	if now.Before(leaf.NotBefore) {
		return fmt.Errorf("certificate not yet valid")
	}
	if now.After(leaf.NotAfter) {
		return fmt.Errorf("certificate has expired")
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		return fmt.Errorf("certificate not valid for localhost: %w", err)
	}
	return nil
}

func (m *FileManager) remove() error {
	for _, path := range []string{m.CertFile(), m.KeyFile()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// LoadCertPool reads PEM certificates from path into a pool for TLS clients.
func LoadCertPool(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCertificates)
	}
	return pool, nil
}
