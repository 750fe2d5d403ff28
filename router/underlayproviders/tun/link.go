// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tun

import (
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/router"
)

// link is a TUN device with a sending queue. The rest is about logs and metrics.
type link struct {
	name         string // for logs. It's more informative than ifID.
	device       string
	ifID         uint16
	dev          io.ReadWriteCloser
	queue        chan *router.Packet
	metrics      *router.InterfaceMetrics
	pool         router.PacketPool
	senderStop   chan struct{}
	receiverDone chan struct{}
	senderDone   chan struct{}
	running      atomic.Bool
}

func newLink(
	name, device string,
	ifID uint16,
	dev io.ReadWriteCloser,
	qSize int,
	metrics *router.InterfaceMetrics,
) *link {
	return &link{
		name:         name,
		device:       device,
		ifID:         ifID,
		dev:          dev,
		queue:        make(chan *router.Packet, qSize),
		metrics:      metrics,
		senderStop:   make(chan struct{}),
		receiverDone: make(chan struct{}),
		senderDone:   make(chan struct{}),
	}
}

func (l *link) IfID() uint16 {
	return l.ifID
}

func (l *link) Name() string {
	return l.name
}

// Send queues the packet for transmission on the device.
func (l *link) Send(p *router.Packet) bool {
	select {
	case l.queue <- p:
		return true
	default:
		sc := router.ClassOfSize(len(p.RawPacket))
		l.metrics[sc].DroppedPacketsBusyForwarder.Inc()
		return false
	}
}

// start puts the link in the running state. In that state, the link delivers incoming packets
// to the processor queues and transmits the queued ones.
func (l *link) start(batchSize int, pool router.PacketPool, procQs []chan *router.Packet) {
	wasRunning := l.running.Swap(true)
	if wasRunning {
		return
	}
	l.pool = pool

	// Receiver task
	go func() {
		defer log.HandlePanic()
		l.receive(pool, procQs)
		close(l.receiverDone)
	}()

	// Forwarder task
	go func() {
		defer log.HandlePanic()
		l.send(pool)
		close(l.senderDone)
	}()
}

// stop puts the link in the stopped state. The link is fully stopped when this method
// returns; packets still queued are returned to the pool.
func (l *link) stop() {
	wasRunning := l.running.Swap(false)
	if !wasRunning {
		return
	}
	if err := l.dev.Close(); err != nil { // Unblock receiver
		log.Info("Closing device", "device", l.device, "err", err)
	}
	close(l.senderStop) // Unblock sender
	<-l.receiverDone
	<-l.senderDone
	for {
		select {
		case p := <-l.queue:
			l.pool.Put(p)
		default:
			return
		}
	}
}

func (l *link) receive(pool router.PacketPool, procQs []chan *router.Packet) {
	// We'll reuse this one until we can deliver it. At which point, we fetch a fresh one.
	p := pool.Get()

	for l.running.Load() {
		// Since it may be recycled...
		p.Reset()

		n, err := l.dev.Read(p.RawPacket)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || !l.running.Load() {
				break
			}
			log.Debug("Reading from device", "device", l.device, "err", err)
			continue
		}
		p.RawPacket = p.RawPacket[:n]
		p.Ingress = l.ifID

		sc := router.ClassOfSize(n)
		l.metrics[sc].InputPacketsTotal.Inc()
		l.metrics[sc].InputBytesTotal.Add(float64(n))

		procID := router.ProcessorID(p.RawPacket, len(procQs))
		select {
		case procQs[procID] <- p:
			p = pool.Get() // we need a fresh packet buffer now.
		default:
			l.metrics[sc].DroppedPacketsBusyProcessor.Inc()
		}
	}

	// We have to stop receiving. Return the unused packet to the pool to avoid creating
	// a memory leak (the process is not required to exit - e.g. in tests).
	pool.Put(p)
}

func (l *link) send(pool router.PacketPool) {
	for {
		var p *router.Packet
		select {
		case <-l.senderStop:
			return
		case p = <-l.queue:
		}
		sc := router.ClassOfSize(len(p.RawPacket))
		if _, err := l.dev.Write(p.RawPacket); err != nil {
			log.Debug("Writing to device", "device", l.device, "err", err)
			l.metrics[sc].DroppedPacketsBusyForwarder.Inc()
		} else {
			l.metrics[sc].OutputPacketsTotal.Inc()
			l.metrics[sc].OutputBytesTotal.Add(float64(len(p.RawPacket)))
		}
		pool.Put(p)
	}
}
