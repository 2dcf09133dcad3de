package tokenservice

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const devKeyBits = 2048

type KeyOptions struct {
	PrivateKeyPEM string
	PublicKeyPEM  string
	KeysDir       string
	Development   bool
}

// LoadKeys fuera de desarrollo la falta de claves es un error fatal
func LoadKeys(opts KeyOptions) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM := opts.PrivateKeyPEM
	publicPEM := opts.PublicKeyPEM
	if privatePEM == "" && opts.Development && opts.KeysDir != "" {
		privatePEM, publicPEM = readKeysDir(opts.KeysDir)
	}
	if privatePEM == "" {
		if !opts.Development {
			return nil, nil, errors.New("no se configuró la clave privada JWT")
		}
		log.Warn("claves JWT no configuradas, se genera un par efímero; los tokens no sobreviven un reinicio")
		privateKey, err := rsa.GenerateKey(rand.Reader, devKeyBits)
		if err != nil {
			return nil, nil, errors.Wrap(err, "error generando el par de claves de desarrollo")
		}
		return privateKey, &privateKey.PublicKey, nil
	}

	privateKey, err := ParsePrivateKey(privatePEM)
	if err != nil {
		return nil, nil, errors.Wrap(err, "clave privada JWT inválida")
	}
	if publicPEM == "" {
		return privateKey, &privateKey.PublicKey, nil
	}
	publicKey, err := ParsePublicKey(publicPEM)
	if err != nil {
		return nil, nil, errors.Wrap(err, "clave pública JWT inválida")
	}
	if publicKey.N.Cmp(privateKey.PublicKey.N) != 0 || publicKey.E != privateKey.PublicKey.E {
		return nil, nil, errors.New("la clave pública JWT no corresponde a la privada")
	}
	return privateKey, publicKey, nil
}

func readKeysDir(dir string) (privatePEM, publicPEM string) {
	privateData, err := os.ReadFile(filepath.Join(dir, "private.pem"))
	if err != nil {
		log.WithError(err).WithField("dir", dir).Debug("no se encontró private.pem")
		return "", ""
	}
	publicData, err := os.ReadFile(filepath.Join(dir, "public.pem"))
	if err != nil {
		log.WithError(err).WithField("dir", dir).Debug("no se encontró public.pem")
	}
	return string(privateData), string(publicData)
}

func ParsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("PEM de clave privada inválido")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
		return nil, errors.New("tipo de clave privada no soportado")
	default:
		return nil, errors.Errorf("tipo de clave privada no soportado %s", block.Type)
	}
}

func ParsePublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("PEM de clave pública inválido")
	}
	switch block.Type {
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("la clave pública no es RSA")
		}
		return rsaKey, nil
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		return nil, errors.Errorf("tipo de clave pública no soportado %s", block.Type)
	}
}
