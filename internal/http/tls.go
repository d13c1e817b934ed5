package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

func getTLSConfig(keyPath string, certPath string, cacertPath string, serverName string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if keyPath == "" || certPath == "" {
		return nil, fmt.Errorf("the key and the cert should both be set to enable tls")
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("fail to load the tls key pair: %w", err)
	}
	tlsConfig.Certificates = []tls.Certificate{cert}
	if cacertPath != "" {
		caCert, err := os.ReadFile(cacertPath)
		if err != nil {
			return nil, fmt.Errorf("fail to read the CA certificate: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("fail to parse the CA certificate %s", cacertPath)
		}
		tlsConfig.ClientCAs = caCertPool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfig.RootCAs = caCertPool
	}
	tlsConfig.ServerName = serverName
	tlsConfig.InsecureSkipVerify = insecure // #nosec
	return tlsConfig, nil
}
