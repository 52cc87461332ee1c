package logging

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogstashWriterForwardsLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte(`{"msg":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"msg":"hello"}`), n)

	select {
	case line := <-received:
		assert.Equal(t, "{\"msg\":\"hello\"}\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("logstash listener received nothing")
	}
}

func TestLogstashWriterDropsWhileUnreachable(t *testing.T) {
	dials := 0
	w, err := NewLogstashWriter("logstash:5000", WithRetryInterval(time.Hour))
	require.NoError(t, err)
	w.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	for i := 0; i < 3; i++ {
		n, err := w.Write([]byte("entry"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	}
	assert.Equal(t, 1, dials, "retry pause must suppress redials")
	assert.Equal(t, 3, w.Dropped())

	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestNewLogstashWriterRequiresAddress(t *testing.T) {
	_, err := NewLogstashWriter("  ")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, closeFn, err := New("debug", "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
	assert.NoError(t, closeFn())

	_, _, err = New("loud", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "logging"))
}
