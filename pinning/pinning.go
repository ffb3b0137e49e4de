// pinning/pinning.go
/* Package pinning accepts a TLS server only when its leaf certificate is byte-for-byte equal to a
bundled certificate. The comparison runs after Go's standard chain verification, so a server must
be both trusted and pinned. */
package pinning

import (
	"bytes"
	"crypto/tls"
	"encoding/pem"
	"errors"
	"os"

	"github.com/mckinley/go-api-rest-client/logger"
	"go.uber.org/zap"
)

var (
	// ErrNoPinnedCertificate is returned for every handshake when no certificate is bundled.
	ErrNoPinnedCertificate = errors.New("pinning: no pinned certificate loaded")
	// ErrNoPeerCertificate is returned when the server presented no certificate.
	ErrNoPeerCertificate = errors.New("pinning: server presented no certificate")
	// ErrCertificateMismatch is returned when the leaf certificate differs from the pin.
	ErrCertificateMismatch = errors.New("pinning: server certificate does not match pinned certificate")
)

// Certificate holds the DER bytes of the pinned certificate. An empty Certificate rejects
// every handshake.
type Certificate struct {
	DER []byte
}

// Empty reports whether no certificate is pinned.
func (c Certificate) Empty() bool {
	return len(c.DER) == 0
}

// LoadCertificate reads a DER (.cer) or PEM encoded certificate from path. A missing or
// unreadable file is logged and yields an empty Certificate.
func LoadCertificate(path string, log logger.Logger) Certificate {
	if log == nil {
		log = logger.NewNopLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Pinned certificate unavailable, all TLS handshakes will be rejected",
			zap.String("path", path), zap.Error(err))
		return Certificate{}
	}

	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "CERTIFICATE" {
			log.Warn("Pinned certificate file holds no certificate",
				zap.String("path", path), zap.String("pem_type", block.Type))
			return Certificate{}
		}
		data = block.Bytes
	}

	log.Debug("Loaded pinned certificate", zap.String("path", path), zap.Int("bytes", len(data)))
	return Certificate{DER: data}
}

// Verifier compares server leaf certificates against a pin.
type Verifier struct {
	pin Certificate
	log logger.Logger
}

// NewVerifier returns a Verifier for pin.
func NewVerifier(pin Certificate, log logger.Logger) *Verifier {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Verifier{pin: pin, log: log}
}

// VerifyConnection is a tls.Config.VerifyConnection callback. It accepts the connection
// only if the leaf certificate's DER bytes equal the pinned bytes.
func (v *Verifier) VerifyConnection(state tls.ConnectionState) error {
	if v.pin.Empty() {
		v.log.Warn("Rejecting TLS handshake", zap.String("server", state.ServerName), zap.Error(ErrNoPinnedCertificate))
		return ErrNoPinnedCertificate
	}
	if len(state.PeerCertificates) == 0 {
		v.log.Warn("Rejecting TLS handshake", zap.String("server", state.ServerName), zap.Error(ErrNoPeerCertificate))
		return ErrNoPeerCertificate
	}
	if !bytes.Equal(state.PeerCertificates[0].Raw, v.pin.DER) {
		v.log.Warn("Rejecting TLS handshake", zap.String("server", state.ServerName), zap.Error(ErrCertificateMismatch))
		return ErrCertificateMismatch
	}
	return nil
}

// TLSConfig returns a copy of base (or a new config when base is nil) requiring TLS 1.2 and
// running VerifyConnection on every handshake.
func (v *Verifier) TLSConfig(base *tls.Config) *tls.Config {
	var config *tls.Config
	if base != nil {
		config = base.Clone()
	} else {
		config = &tls.Config{}
	}
	if config.MinVersion < tls.VersionTLS12 {
		config.MinVersion = tls.VersionTLS12
	}
	config.VerifyConnection = v.VerifyConnection
	return config
}
