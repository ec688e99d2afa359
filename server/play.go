package server

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hearthvale/beacon/proto"
	"github.com/hearthvale/beacon/proto/play"
)

// keepAliveInterval matches spec.md's 1-second keepalive cadence.
const keepAliveInterval = time.Second

// preJoinDelay is the vanilla-client quirk pause between JoinGame/brand
// and the first spawn teleport — without it the client can race its
// own world initialization and ignore the teleport.
const preJoinDelay = 2 * time.Second

// play drives the play phase for one connection: the fixed join
// sequence, then a concurrent receive-loop/keepalive-timer pair until
// the stream ends or errors.
func (s *Server) play(conn net.Conn, log *logrus.Entry, id proto.UUID) error {
	entityID := s.store.AssignEntityID(uuid.UUID(id))
	cfg := s.store.Config()

	if err := play.WriteJoinGame(conn, entityID, cfg.JoinGameData); err != nil {
		return err
	}
	if err := play.WriteBrand(conn, cfg.ServerBrand); err != nil {
		return err
	}

	time.Sleep(preJoinDelay)

	spawn := play.PositionAndLook{
		X: cfg.SpawnPoint[0], Y: cfg.SpawnPoint[1], Z: cfg.SpawnPoint[2],
		Yaw: 0, Pitch: 0, Flags: 0, TeleportID: 0, Dismount: false,
	}
	if err := play.WritePlayerPositionAndLook(conn, spawn); err != nil {
		return err
	}

	for _, chunk := range s.store.Chunks() {
		if err := play.WriteChunkData(conn, chunk); err != nil {
			return err
		}
		// One BlockEntityData per block entity in the world is sent
		// after every chunk, not once after the chunk set — a known
		// O(chunks * block_entities) divergence carried over from the
		// original rather than "fixed" here.
		for _, be := range s.store.BlockEntities() {
			if err := play.WriteBlockEntityData(conn, be); err != nil {
				return err
			}
		}
	}

	if err := play.WriteUpdateViewPosition(conn, 0, 0); err != nil {
		return err
	}
	if err := play.WritePlayerPositionAndLook(conn, spawn); err != nil {
		return err
	}

	log.Info("join sequence complete, entering play loop")
	return s.playLoop(conn, log)
}

// playLoop runs the reader goroutine and the keepalive ticker
// concurrently, writing to conn only from this goroutine so outbound
// writes never interleave. The reader goroutine's only job is to
// decode frames and push them onto frames; playLoop does all protocol
// handling and every write.
func (s *Server) playLoop(conn net.Conn, log *logrus.Entry) error {
	frames := make(chan proto.Frame)
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(parent)

	g.Go(func() error {
		defer close(frames)
		for {
			frame, err := proto.ReadFrame(conn)
			if err != nil {
				return err
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return nil
			}
		}
	})

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	var loopErr error
loop:
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				break loop
			}
			if err := s.handlePlayFrame(log, frame); err != nil {
				loopErr = err
				break loop
			}
		case now := <-ticker.C:
			if err := play.WriteKeepAlive(conn, uint64(now.Unix())); err != nil {
				loopErr = err
				break loop
			}
		}
	}

	cancel()    // unblock a reader goroutine parked on frames<-frame
	conn.Close() // unblock the reader goroutine's in-flight Read
	if err := g.Wait(); loopErr == nil {
		loopErr = err
	}
	return loopErr
}

func (s *Server) handlePlayFrame(log *logrus.Entry, frame proto.Frame) error {
	switch frame.PacketID {
	case play.PacketIDTeleportConfirm:
		tc, err := play.ReadTeleportConfirm(frame)
		if err != nil {
			return err
		}
		log.WithField("teleport_id", tc.TeleportID).Info("got packet: TeleportConfirm")
	case play.PacketIDClientSettings:
		cs, err := play.ReadClientSettings(frame)
		if err != nil {
			return err
		}
		log.WithField("locale", cs.Locale).Info("got packet: ClientSettings")
	case play.PacketIDIncomingCustom:
		cp, err := play.ReadCustomPayload(frame)
		if err != nil {
			return err
		}
		if cp.Channel == play.BrandChannel {
			log.WithField("brand", cp.Brand).Info("got packet: CustomPayload(minecraft:brand)")
		} else {
			log.WithField("channel", cp.Channel).Debug("got packet: CustomPayload(unknown channel)")
		}
	case play.PacketIDIncomingKeepAlive:
		if _, err := play.ReadIncomingKeepAlive(frame); err != nil {
			return err
		}
	case play.PacketIDPlayerPosition:
		if _, err := play.ReadPlayerPosition(frame); err != nil {
			return err
		}
	case play.PacketIDPlayerPosAndRotation:
		if _, err := play.ReadPlayerPositionAndRotation(frame); err != nil {
			return err
		}
	case play.PacketIDPlayerRotation:
		if _, err := play.ReadPlayerRotation(frame); err != nil {
			return err
		}
	default:
		log.WithField("packet_id", frame.PacketID).Debug("unknown play packet id, ignoring")
	}
	return nil
}
