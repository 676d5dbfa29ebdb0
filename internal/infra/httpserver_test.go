package infra

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServerAppliesTimeouts(t *testing.T) {
	s := NewHTTPServer(":9090", http.NewServeMux(), HTTPTimeouts{
		Read:  2 * time.Second,
		Write: 3 * time.Second,
		Idle:  4 * time.Second,
	})
	if got := s.Addr(); got != ":9090" {
		t.Fatalf("Addr: got %q, want %q", got, ":9090")
	}
	if s.server.ReadTimeout != 2*time.Second {
		t.Fatalf("ReadTimeout: got %v, want %v", s.server.ReadTimeout, 2*time.Second)
	}
	if s.server.WriteTimeout != 3*time.Second {
		t.Fatalf("WriteTimeout: got %v, want %v", s.server.WriteTimeout, 3*time.Second)
	}
	if s.server.IdleTimeout != 4*time.Second {
		t.Fatalf("IdleTimeout: got %v, want %v", s.server.IdleTimeout, 4*time.Second)
	}
}

func TestNewHTTPServerDefaultsZeroTimeouts(t *testing.T) {
	s := NewHTTPServer(":0", http.NewServeMux(), HTTPTimeouts{})
	if s.server.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout default: got %v, want %v", s.server.ReadTimeout, 15*time.Second)
	}
	if s.server.WriteTimeout != 30*time.Second {
		t.Fatalf("WriteTimeout default: got %v, want %v", s.server.WriteTimeout, 30*time.Second)
	}
	if s.server.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout default: got %v, want %v", s.server.IdleTimeout, 60*time.Second)
	}
}
