package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/riftwm/riftwm/internal/ipc"
	"github.com/riftwm/riftwm/internal/ports"
	"github.com/riftwm/riftwm/internal/reactor"
)

// broadcastSubscriber is one live Subscribe connection: a bounded
// channel the bus drops into, optionally filtered to a single
// BroadcastEvent.Kind.
type broadcastSubscriber struct {
	ch     chan ports.BroadcastEvent
	filter string
}

// broadcastBus implements ports.BroadcastBus with a bounded, dropping
// fan-out: Publish never blocks the reactor (spec §7), it drops the
// event for whichever subscriber's channel is currently full and logs
// it.
type broadcastBus struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*broadcastSubscriber
	log  zerolog.Logger
}

func newBroadcastBus(log zerolog.Logger) *broadcastBus {
	return &broadcastBus{subs: make(map[uuid.UUID]*broadcastSubscriber), log: log}
}

func (b *broadcastBus) Publish(event ports.BroadcastEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		if sub.filter != "" && sub.filter != event.Kind {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.log.Warn().Stringer("subscriber", id).Str("kind", event.Kind).Msg("ipc: dropping broadcast for slow subscriber")
		}
	}
}

func (b *broadcastBus) subscribe(filter string) (uuid.UUID, <-chan ports.BroadcastEvent) {
	id := uuid.New()
	ch := make(chan ports.BroadcastEvent, 32)
	b.mu.Lock()
	b.subs[id] = &broadcastSubscriber{ch: ch, filter: filter}
	b.mu.Unlock()
	return id, ch
}

func (b *broadcastBus) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		close(sub.ch)
		delete(b.subs, id)
	}
}

// ipcServer is the unix-socket accept loop, grounded on the teacher's
// server/server.go (NewServer/Start/acceptLoop/Stop): one goroutine per
// connection, each request either handled directly by the subscriber
// registry below (Subscribe/Unsubscribe/*Cli — spec §6 notes these
// never reach the reactor as events) or forwarded onto the shared
// events channel as an EventQuery and awaited with ipc.AwaitReply's
// bounded timeout.
type ipcServer struct {
	addr     string
	listener net.Listener
	events   chan<- reactor.Event
	bus      *broadcastBus
	log      zerolog.Logger

	cliMu   sync.Mutex
	cliSubs map[string]bool
}

func newIPCServer(addr string, events chan<- reactor.Event, bus *broadcastBus, log zerolog.Logger) *ipcServer {
	return &ipcServer{addr: addr, events: events, bus: bus, log: log, cliSubs: make(map[string]bool)}
}

func (s *ipcServer) Start() error {
	_ = os.RemoveAll(s.addr)
	l, err := net.Listen("unix", s.addr)
	if err != nil {
		return fmt.Errorf("ipc: listen on %s: %w", s.addr, err)
	}
	s.listener = l
	go s.acceptLoop()
	return nil
}

func (s *ipcServer) Stop() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *ipcServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *ipcServer) serve(conn net.Conn) {
	defer conn.Close()

	sessionID := ipc.NewSessionID()
	var writeMu sync.Mutex
	var seq uint64

	writeResp := func(resp ipc.Response) {
		payload, err := ipc.Encode(resp)
		if err != nil {
			s.log.Warn().Err(err).Msg("ipc: encode response failed")
			return
		}
		seq++
		hdr := ipc.Header{Version: ipc.Version, Flags: ipc.FlagChecksum, SessionID: sessionID, Sequence: seq}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := ipc.WriteFrame(conn, hdr, payload); err != nil {
			s.log.Debug().Err(err).Msg("ipc: write frame failed")
		}
	}

	var subID uuid.UUID
	subscribed := false
	defer func() {
		if subscribed {
			s.bus.unsubscribe(subID)
		}
	}()

	for {
		_, payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return
		}
		req, err := ipc.Decode(payload)
		if err != nil {
			writeResp(ipc.Fail(err))
			continue
		}

		switch req.Kind {
		case ipc.ReqSubscribe:
			if subscribed {
				s.bus.unsubscribe(subID)
			}
			var ch <-chan ports.BroadcastEvent
			subID, ch = s.bus.subscribe(req.Event)
			subscribed = true
			go func(ch <-chan ports.BroadcastEvent) {
				for ev := range ch {
					writeResp(ipc.Ok(ev))
				}
			}(ch)
			writeResp(ipc.Ok(nil))

		case ipc.ReqUnsubscribe:
			if subscribed {
				s.bus.unsubscribe(subID)
				subscribed = false
			}
			writeResp(ipc.Ok(nil))

		case ipc.ReqSubscribeCli:
			s.cliMu.Lock()
			s.cliSubs[cliSubName(req)] = true
			s.cliMu.Unlock()
			writeResp(ipc.Ok(nil))

		case ipc.ReqUnsubscribeCli:
			s.cliMu.Lock()
			delete(s.cliSubs, cliSubName(req))
			s.cliMu.Unlock()
			writeResp(ipc.Ok(nil))

		case ipc.ReqListCliSubscriptions:
			s.cliMu.Lock()
			names := make([]string, 0, len(s.cliSubs))
			for name := range s.cliSubs {
				names = append(names, name)
			}
			s.cliMu.Unlock()
			writeResp(ipc.Ok(names))

		default:
			s.forwardQuery(req, writeResp)
		}
	}
}

// cliSubName picks the identity a SubscribeCli/UnsubscribeCli call
// names itself by: its first positional arg if given, falling back to
// the event string (spec leaves the exact identity scheme open; a
// CLI tool supplies whichever it has).
func cliSubName(req ipc.Request) string {
	if len(req.Args) > 0 {
		return req.Args[0]
	}
	return req.Event
}

func (s *ipcServer) forwardQuery(req ipc.Request, writeResp func(ipc.Response)) {
	reply := make(chan ipc.Response, 1)
	ev := reactor.Event{Kind: reactor.EventQuery, Query: &req, Reply: reply}

	select {
	case s.events <- ev:
	default:
		writeResp(ipc.Fail(fmt.Errorf("ipc: event queue full")))
		return
	}

	resp, err := ipc.AwaitReply(context.Background(), reply)
	if err != nil {
		writeResp(ipc.Fail(err))
		return
	}
	writeResp(resp)
}
