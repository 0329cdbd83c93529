// Package smtp реализует транспорт исходящей почты поверх net/smtp.
package smtp

import (
	"context"
	"io"
)

// Client сеанс с SMTP-сервером.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает сеанс отправки.
type Dialer interface {
	Connect(ctx context.Context) (Client, error)
	From() string
}
