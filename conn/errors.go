package conn

import "github.com/schlitzered/goredis/rerror"

func NewConnError(c *Conn, cause error) *rerror.ConnError {
	return rerror.NewConnError(c.Endpoint.Key(), cause)
}

func NewReadTimeoutError(c *Conn, cause error) *rerror.ReadTimeoutError {
	return rerror.NewReadTimeoutError(c.Endpoint.Key(), cause)
}

func NewConnClosedError(c *Conn) *rerror.ConnClosedError {
	return &rerror.ConnClosedError{Endpoint: c.Endpoint.Key()}
}
