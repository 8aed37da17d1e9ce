package rmp_test

import (
	"fmt"
	"net"
	"time"

	"github.com/aaditya-ag/rmp/pkg/rmp"
)

// ExampleSocket demonstrates the two-peer exchange that the original
// implementation's user1/user2 demo programs drove by hand: one socket
// binds as a fixed-address listener, a second sends it a message and
// reads back the reply. Everything here runs in a single process and
// a single test binary; RMP does not ship a CLI of its own.
func ExampleSocket() {
	cfg := rmp.DefaultConfig()
	cfg.DropProbability = 0
	cfg.RetransmitInterval = 10 * time.Millisecond
	cfg.RetransmitTimeout = 20 * time.Millisecond

	listener, err := rmp.Open(rmp.FamilyINET, rmp.SocketTypeRMP, 0, cfg)
	if err != nil {
		fmt.Println("open failed:", err)
		return
	}
	defer listener.Close()
	if err := listener.Bind(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}); err != nil {
		fmt.Println("bind failed:", err)
		return
	}

	caller, err := rmp.Open(rmp.FamilyINET, rmp.SocketTypeRMP, 0, cfg)
	if err != nil {
		fmt.Println("open failed:", err)
		return
	}
	defer caller.Close()
	if err := caller.Bind(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}); err != nil {
		fmt.Println("bind failed:", err)
		return
	}

	if _, err := caller.Send([]byte("ping"), listener.LocalAddr()); err != nil {
		fmt.Println("send failed:", err)
		return
	}

	buf := make([]byte, 64)
	n, from, err := listener.Recv(buf)
	if err != nil {
		fmt.Println("recv failed:", err)
		return
	}
	fmt.Println(string(buf[:n]))

	if _, err := listener.Send([]byte("pong"), from); err != nil {
		fmt.Println("send failed:", err)
		return
	}

	n, _, err = caller.Recv(buf)
	if err != nil {
		fmt.Println("recv failed:", err)
		return
	}
	fmt.Println(string(buf[:n]))

	// Output:
	// ping
	// pong
}
