package network

import (
	"crypto/x509"
	"fmt"
	"os"
)

// LoadCertPool reads PEM encoded certificates from path into a new pool.
func LoadCertPool(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificates: %w", err)
	}
	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificate found in %s", path)
	}
	return certPool, nil
}
