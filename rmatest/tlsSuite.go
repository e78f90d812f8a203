package rmatest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/suite"
)

// CreateTestCertificate generates a self-signed certificate valid for
// localhost, 127.0.0.1 and ::1.  The certificate can act as its own CA.
func CreateTestCertificate() (*tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(now.UnixNano()),
		Subject: pkix.Name{
			CommonName: "rmagui test",
		},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1"), net.IPv6loopback},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	return &tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}, nil
}

// WriteTestServerFiles writes the PEM certificate and key files expected by
// net/http servers into dir.  Only the first certificate in the chain is written.
func WriteTestServerFiles(dir string, certificate *tls.Certificate) (certificateFile, keyFile string, err error) {
	certificateFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")

	err = os.WriteFile(
		certificateFile,
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate.Certificate[0]}),
		0600,
	)

	var keyBytes []byte
	if err == nil {
		keyBytes, err = x509.MarshalPKCS8PrivateKey(certificate.PrivateKey)
	}

	if err == nil {
		err = os.WriteFile(
			keyFile,
			pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes}),
			0600,
		)
	}

	return
}

// TLSSuite is a stretchr/testify suite that manages the lifecycle of a
// testing certificate.  The certificate doubles as the root CA, so a client
// configured with CertificateFile() as a root CA trusts a server using it.
type TLSSuite struct {
	suite.Suite

	dir             string
	certificate     *tls.Certificate
	certificateFile string
	keyFile         string
}

func (suite *TLSSuite) SetupSuite() {
	var err error
	suite.certificate, err = CreateTestCertificate()
	suite.Require().NoError(err, "Unable to generate test certificate")

	suite.dir, err = os.MkdirTemp("", "rmagui-tls-*")
	suite.Require().NoError(err)

	suite.certificateFile, suite.keyFile, err = WriteTestServerFiles(suite.dir, suite.certificate)
	suite.Require().NoError(err, "Unable to create temporary server files")
}

func (suite *TLSSuite) TearDownSuite() {
	if err := os.RemoveAll(suite.dir); err != nil {
		suite.T().Logf("Unable to remove %s: %s", suite.dir, err)
	}
}

// Certificate returns the generated certificate
func (suite *TLSSuite) Certificate() *tls.Certificate {
	return suite.certificate
}

// CertificateFile returns the PEM file holding the certificate
func (suite *TLSSuite) CertificateFile() string {
	return suite.certificateFile
}

// KeyFile returns the PEM file holding the private key
func (suite *TLSSuite) KeyFile() string {
	return suite.keyFile
}
