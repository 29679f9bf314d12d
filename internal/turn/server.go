package turn

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/pion/turn/v4"

	"github.com/codemeet/collab-server/internal/config"
)

// Server wraps an embedded TURN relay so peers behind restrictive NATs
// can still complete the media path negotiated over the signaling
// relay.
type Server struct {
	server *turn.Server
	addr   string
}

func NewServer(cfg config.TurnConfig) (*Server, error) {
	publicIP := cfg.PublicIP
	if publicIP == "" {
		ip, err := detectPublicIP()
		if err != nil {
			return nil, fmt.Errorf("failed to detect public IP: %w", err)
		}
		publicIP = ip
	}

	udpListener, err := net.ListenPacket("udp4", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to create TURN listener: %w", err)
	}

	server, err := turn.NewServer(turn.ServerConfig{
		Realm: cfg.Realm,
		AuthHandler: func(username, realm string, srcAddr net.Addr) ([]byte, bool) {
			if username == cfg.Username {
				return turn.GenerateAuthKey(cfg.Username, realm, cfg.Password), true
			}
			return nil, false
		},
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: udpListener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: net.ParseIP(publicIP),
					Address:      "0.0.0.0",
				},
			},
		},
	})
	if err != nil {
		udpListener.Close()
		return nil, fmt.Errorf("failed to create TURN server: %w", err)
	}

	slog.Info("turn server running", "addr", cfg.Address, "realm", cfg.Realm)
	return &Server{server: server, addr: cfg.Address}, nil
}

func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	err := s.server.Close()
	slog.Info("turn server stopped", "addr", s.addr)
	return err
}

// detectPublicIP picks the local address a UDP socket toward a public
// resolver would use. Good enough for single-homed deployments; set
// turn.public_ip explicitly otherwise.
func detectPublicIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
