package redis

import (
	"fmt"

	"github.com/mediocregopher/radix/v3"
	"github.com/rsms/go-log"
)

// Redis holds the connections used by HashSource.
// Reads go to the read-only server when one is configured.
type Redis struct {
	Logger *log.Logger

	rwc radix.Client // read-write redis server connection
	roc radix.Client // read-only redis server connection (if nil, use rwc for reads)
}

func (r *Redis) Open(rwaddr, roaddr string, connPoolSize int) error {
	if roaddr == "" {
		roaddr = rwaddr
	} else if rwaddr == "" {
		rwaddr = roaddr
	}

	// connect to read-write server (LEADER)
	rwc, err := radix.NewPool("tcp", rwaddr, connPoolSize)
	if err != nil {
		return err
	}

	// if a different address is provided for roc, connect to read-only server (FOLLOWER)
	var roc radix.Client
	if rwaddr != roaddr {
		roc, err = radix.NewPool("tcp", roaddr, connPoolSize)
		if err != nil {
			rwc.Close()
			return err
		}
	}

	if r.Logger != nil {
		if rwaddr != roaddr {
			r.Logger.Info("connected to rw=%s, ro=%s", rwaddr, roaddr)
		} else {
			r.Logger.Info("connected to %s", rwaddr)
		}
	}

	return r.SetConnections(rwc, roc)
}

// SetConnections uses already established clients. roc may be nil.
func (r *Redis) SetConnections(rwc, roc radix.Client) error {
	if r.rwc != nil {
		return fmt.Errorf("already connected")
	}
	if rwc == nil {
		return fmt.Errorf("missing read-write connection")
	}
	r.rwc = rwc
	r.roc = roc

	if r.Logger != nil {
		// initialize logging for the connection(s)
		r.initErrLogging(rwc)
		if roc != nil {
			r.initErrLogging(roc)
		}
	}
	return nil
}

func (r *Redis) initErrLogging(c radix.Client) {
	p, ok := c.(*radix.Pool)
	if !ok {
		return
	}
	p.ErrCh = make(chan error)
	go func(ch chan error, l *log.Logger) {
		for {
			// Note: ErrCh closes when p.Close() is called
			err, ok := <-ch
			if !ok {
				break
			}
			l.Warn("recovered error %v (%v)", err, p)
		}
		l.Debug("closed connection (%v)", p)
	}(p.ErrCh, r.Logger)
}

func (r *Redis) Close() error {
	if r.rwc == nil {
		return nil
	}
	err := r.rwc.Close()
	if r.roc != nil {
		if err2 := r.roc.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	r.rwc = nil
	r.roc = nil
	return err
}

// WClient returns the read-write redis connection
func (r *Redis) WClient() radix.Client { return r.rwc }

// RClient returns a redis connection for reading
func (r *Redis) RClient() radix.Client {
	if r.roc != nil {
		return r.roc
	}
	return r.rwc
}

// doRead runs action a on the most suitable redis server for reading
func (r *Redis) doRead(a radix.Action) error {
	c := r.RClient()
	if c == nil {
		return fmt.Errorf("not connected")
	}
	return c.Do(a)
}
