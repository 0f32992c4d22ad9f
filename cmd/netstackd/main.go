// Command netstackd wires up a loopback device, a discard device, and
// optionally a tap device with an IPv4 interface, then runs
// the stack's worker loop until interrupted.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/device/loopback"
	"github.com/kestrelnet/netstack/device/null"
	"github.com/kestrelnet/netstack/device/tap"
	"github.com/kestrelnet/netstack/network/ipv4"
	"github.com/kestrelnet/netstack/stack"
)

func main() {
	tapName := flag.String("tap", "", "name of a tap device to create or attach to (requires -addr); left empty to run with only the loopback and null devices")
	addr := flag.String("addr", "", "IPv4 address for the tap device, e.g. 10.0.0.1")
	netmask := flag.String("netmask", "255.255.255.0", "IPv4 netmask for the tap device")
	flag.Parse()

	lo := loopback.New("lo0")
	if err := device.Register(lo); err != nil {
		log.Fatalf("netstackd: register lo0: %v", err)
	}

	nul := null.New("null0")
	if err := device.Register(nul); err != nil {
		log.Fatalf("netstackd: register null0: %v", err)
	}

	if *tapName != "" {
		if *addr == "" {
			log.Fatal("netstackd: -tap requires -addr")
		}

		tapDev, err := tap.New(*tapName)
		if err != nil {
			log.Fatalf("netstackd: create tap %s: %v", *tapName, err)
		}
		if err := device.Register(tapDev); err != nil {
			log.Fatalf("netstackd: register %s: %v", *tapName, err)
		}
		if _, err := ipv4.AddInterface(tapDev, *addr, *netmask); err != nil {
			log.Fatalf("netstackd: add interface %s/%s on %s: %v", *addr, *netmask, *tapName, err)
		}
	}

	if err := stack.Init(); err != nil {
		log.Fatalf("netstackd: init: %v", err)
	}
	if err := stack.Run(); err != nil {
		log.Fatalf("netstackd: run: %v", err)
	}

	log.Printf("netstackd: running, ctrl-C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Printf("netstackd: shutting down")
	stack.Shutdown()
}
