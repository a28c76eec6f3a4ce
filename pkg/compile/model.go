// Package compile joins a validated configuration tree into the
// per-client and server views, and writes the binary and C source
// artifact set for one compilation run.
package compile

import (
	"github.com/hazelnet-bus/hzlconfig/pkg/config"
	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

// ServerNickname names the server's artifact files.
const ServerNickname = "Server"

// Client is one client's full artifact content: its own config record
// and one group record per group it belongs to, in ascending gid order.
type Client struct {
	Nickname string
	Config   record.ClientConfig
	Groups   []record.ClientGroupConfig
}

// Server is the server's view of the whole population.
type Server struct {
	Config  record.ServerConfig
	Clients []record.ServerSideClientConfig
	Groups  []record.ServerGroupConfig
}

// Model is the built, immutable output of one compilation run. Each
// client's artifacts and the server's are independent of each other.
type Model struct {
	Clients []Client
	Server  Server
}

// Build assembles the model from a validated tree. Membership is tested
// against each group's declared member list (which validation has
// already forced to the full population for the broadcast group), not
// against the bitmap. Build assumes the tree's invariants hold and does
// no validation of its own.
func Build(tree *config.Tree) *Model {
	m := &Model{Clients: make([]Client, 0, len(tree.Clients))}
	headerType := *tree.Bus.HeaderType

	for _, c := range tree.Clients {
		var memberOf []*config.Group
		for _, g := range tree.Groups {
			if containsSID(g.Clients, c.SID) {
				memberOf = append(memberOf, g)
			}
		}
		client := Client{
			Nickname: c.Nickname,
			Config: record.ClientConfig{
				TimeoutReqToResMillis: *c.TimeoutReqToResMillis,
				LTK:                   c.LTKBytes,
				SID:                   uint32(c.SID),
				HeaderType:            headerType,
				AmountOfGroups:        uint32(len(memberOf)),
			},
			Groups: make([]record.ClientGroupConfig, 0, len(memberOf)),
		}
		for _, g := range memberOf {
			client.Groups = append(client.Groups, record.ClientGroupConfig{
				MaxCtrnonceDelayMsgs:         *g.MaxCtrnonceDelayMsgs,
				MaxSilenceIntervalMillis:     *g.MaxSilenceIntervalMillis,
				SessionRenewalDurationMillis: *g.SessionRenewalDurationMillis,
				GID:                          uint32(g.GID),
			})
		}
		m.Clients = append(m.Clients, client)
	}

	m.Server = Server{
		Config: record.ServerConfig{
			HeaderType:      headerType,
			AmountOfGroups:  uint32(len(tree.Groups)),
			AmountOfClients: uint32(len(tree.Clients)),
		},
		Clients: make([]record.ServerSideClientConfig, 0, len(tree.Clients)),
		Groups:  make([]record.ServerGroupConfig, 0, len(tree.Groups)),
	}
	for _, c := range tree.Clients {
		m.Server.Clients = append(m.Server.Clients, record.ServerSideClientConfig{
			SID: uint32(c.SID),
			LTK: c.LTKBytes,
		})
	}
	for _, g := range tree.Groups {
		m.Server.Groups = append(m.Server.Groups, record.ServerGroupConfig{
			MaxCtrnonceDelayMsgs:               *g.MaxCtrnonceDelayMsgs,
			CtrNonceUpperLimit:                 *g.CtrNonceUpperLimit,
			SessionDurationMillis:              *g.SessionDurationMillis,
			DelayBetweenRenNotificationsMillis: *g.DelayBetweenRenNotificationsMillis,
			ClientSidsInGroupBitmap:            g.ClientSidsInGroupBitmap,
			MaxSilenceIntervalMillis:           *g.MaxSilenceIntervalMillis,
			GID:                                uint32(g.GID),
		})
	}
	return m
}

func containsSID(sids []int, sid int) bool {
	for _, s := range sids {
		if s == sid {
			return true
		}
	}
	return false
}
