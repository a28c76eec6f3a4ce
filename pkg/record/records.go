package record

import "io"

// ClientConfig is a client's own on-wire configuration record.
// Layout (22 bytes):
//
//	u16 timeoutReqToResMillis
//	16B ltk
//	u8  sid
//	u8  headerType
//	u8  amountOfGroups
//	1B  padding
//
// Integer fields are held wider than their wire width so that
// out-of-range values surface as a SerializationError when encoded
// instead of being silently truncated.
type ClientConfig struct {
	TimeoutReqToResMillis uint32
	LTK                   []byte
	SID                   uint32
	HeaderType            uint32
	AmountOfGroups        uint32
}

func (c *ClientConfig) Encode(order ByteOrder, padding byte) ([]byte, error) {
	timeout, err := fitUint16("ClientConfig", "timeoutReqToResMillis", c.TimeoutReqToResMillis)
	if err != nil {
		return nil, err
	}
	sid, err := fitUint8("ClientConfig", "sid", c.SID)
	if err != nil {
		return nil, err
	}
	headerType, err := fitUint8("ClientConfig", "headerType", c.HeaderType)
	if err != nil {
		return nil, err
	}
	groups, err := fitUint8("ClientConfig", "amountOfGroups", c.AmountOfGroups)
	if err != nil {
		return nil, err
	}
	if len(c.LTK) != LTKSize {
		return nil, &SerializationError{
			Record: "ClientConfig",
			Msg:    "ltk must be exactly 16 bytes",
		}
	}
	buf := make([]byte, ClientConfigSize)
	order.binary().PutUint16(buf[0:2], timeout)
	copy(buf[2:18], c.LTK)
	buf[18] = sid
	buf[19] = headerType
	buf[20] = groups
	buf[21] = padding
	return buf, nil
}

func (c *ClientConfig) EncodeTo(w io.Writer, order ByteOrder, padding byte) error {
	buf, err := c.Encode(order, padding)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (c *ClientConfig) Decode(buf []byte, order ByteOrder) error {
	if len(buf) < ClientConfigSize {
		return truncatedErr("ClientConfig", len(buf), ClientConfigSize)
	}
	c.TimeoutReqToResMillis = uint32(order.binary().Uint16(buf[0:2]))
	c.LTK = append([]byte(nil), buf[2:18]...)
	c.SID = uint32(buf[18])
	c.HeaderType = uint32(buf[19])
	c.AmountOfGroups = uint32(buf[20])
	return nil
}

// ClientGroupConfig is a client's view of one group it belongs to.
// Layout (12 bytes):
//
//	u32 maxCtrnonceDelayMsgs
//	u16 maxSilenceIntervalMillis
//	u16 sessionRenewalDurationMillis
//	u8  gid
//	3B  padding
type ClientGroupConfig struct {
	MaxCtrnonceDelayMsgs         uint32
	MaxSilenceIntervalMillis     uint32
	SessionRenewalDurationMillis uint32
	GID                          uint32
}

func (g *ClientGroupConfig) Encode(order ByteOrder, padding byte) ([]byte, error) {
	silence, err := fitUint16("ClientGroupConfig", "maxSilenceIntervalMillis", g.MaxSilenceIntervalMillis)
	if err != nil {
		return nil, err
	}
	renewal, err := fitUint16("ClientGroupConfig", "sessionRenewalDurationMillis", g.SessionRenewalDurationMillis)
	if err != nil {
		return nil, err
	}
	gid, err := fitUint8("ClientGroupConfig", "gid", g.GID)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, ClientGroupConfigSize)
	bo := order.binary()
	bo.PutUint32(buf[0:4], g.MaxCtrnonceDelayMsgs)
	bo.PutUint16(buf[4:6], silence)
	bo.PutUint16(buf[6:8], renewal)
	buf[8] = gid
	buf[9] = padding
	buf[10] = padding
	buf[11] = padding
	return buf, nil
}

func (g *ClientGroupConfig) EncodeTo(w io.Writer, order ByteOrder, padding byte) error {
	buf, err := g.Encode(order, padding)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (g *ClientGroupConfig) Decode(buf []byte, order ByteOrder) error {
	if len(buf) < ClientGroupConfigSize {
		return truncatedErr("ClientGroupConfig", len(buf), ClientGroupConfigSize)
	}
	bo := order.binary()
	g.MaxCtrnonceDelayMsgs = bo.Uint32(buf[0:4])
	g.MaxSilenceIntervalMillis = uint32(bo.Uint16(buf[4:6]))
	g.SessionRenewalDurationMillis = uint32(bo.Uint16(buf[6:8]))
	g.GID = uint32(buf[8])
	return nil
}

// ServerSideClientConfig is the server's record of one client.
// Layout (17 bytes): u8 sid, 16B ltk. No padding.
type ServerSideClientConfig struct {
	SID uint32
	LTK []byte
}

func (c *ServerSideClientConfig) Encode(order ByteOrder, padding byte) ([]byte, error) {
	sid, err := fitUint8("ServerSideClientConfig", "sid", c.SID)
	if err != nil {
		return nil, err
	}
	if len(c.LTK) != LTKSize {
		return nil, &SerializationError{
			Record: "ServerSideClientConfig",
			Msg:    "ltk must be exactly 16 bytes",
		}
	}
	buf := make([]byte, ServerSideClientConfigSize)
	buf[0] = sid
	copy(buf[1:17], c.LTK)
	return buf, nil
}

func (c *ServerSideClientConfig) EncodeTo(w io.Writer, order ByteOrder, padding byte) error {
	buf, err := c.Encode(order, padding)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (c *ServerSideClientConfig) Decode(buf []byte, order ByteOrder) error {
	if len(buf) < ServerSideClientConfigSize {
		return truncatedErr("ServerSideClientConfig", len(buf), ServerSideClientConfigSize)
	}
	c.SID = uint32(buf[0])
	c.LTK = append([]byte(nil), buf[1:17]...)
	return nil
}

// ServerGroupConfig is the server's view of one group.
// Layout (24 bytes):
//
//	u32 maxCtrnonceDelayMsgs
//	u32 ctrNonceUpperLimit
//	u32 sessionDurationMillis
//	u32 delayBetweenRenNotificationsMillis
//	u32 clientSidsInGroupBitmap
//	u16 maxSilenceIntervalMillis
//	u8  gid
//	1B  padding
type ServerGroupConfig struct {
	MaxCtrnonceDelayMsgs               uint32
	CtrNonceUpperLimit                 uint32
	SessionDurationMillis              uint32
	DelayBetweenRenNotificationsMillis uint32
	ClientSidsInGroupBitmap            uint32
	MaxSilenceIntervalMillis           uint32
	GID                                uint32
}

func (g *ServerGroupConfig) Encode(order ByteOrder, padding byte) ([]byte, error) {
	silence, err := fitUint16("ServerGroupConfig", "maxSilenceIntervalMillis", g.MaxSilenceIntervalMillis)
	if err != nil {
		return nil, err
	}
	gid, err := fitUint8("ServerGroupConfig", "gid", g.GID)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, ServerGroupConfigSize)
	bo := order.binary()
	bo.PutUint32(buf[0:4], g.MaxCtrnonceDelayMsgs)
	bo.PutUint32(buf[4:8], g.CtrNonceUpperLimit)
	bo.PutUint32(buf[8:12], g.SessionDurationMillis)
	bo.PutUint32(buf[12:16], g.DelayBetweenRenNotificationsMillis)
	bo.PutUint32(buf[16:20], g.ClientSidsInGroupBitmap)
	bo.PutUint16(buf[20:22], silence)
	buf[22] = gid
	buf[23] = padding
	return buf, nil
}

func (g *ServerGroupConfig) EncodeTo(w io.Writer, order ByteOrder, padding byte) error {
	buf, err := g.Encode(order, padding)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (g *ServerGroupConfig) Decode(buf []byte, order ByteOrder) error {
	if len(buf) < ServerGroupConfigSize {
		return truncatedErr("ServerGroupConfig", len(buf), ServerGroupConfigSize)
	}
	bo := order.binary()
	g.MaxCtrnonceDelayMsgs = bo.Uint32(buf[0:4])
	g.CtrNonceUpperLimit = bo.Uint32(buf[4:8])
	g.SessionDurationMillis = bo.Uint32(buf[8:12])
	g.DelayBetweenRenNotificationsMillis = bo.Uint32(buf[12:16])
	g.ClientSidsInGroupBitmap = bo.Uint32(buf[16:20])
	g.MaxSilenceIntervalMillis = uint32(bo.Uint16(buf[20:22]))
	g.GID = uint32(buf[22])
	return nil
}

// ServerConfig is the server's global configuration record.
// Layout (3 bytes): u8 amountOfGroups, u8 amountOfClients, u8 headerType.
//
// The wire order differs from the declared field order below. Existing
// firmware parsers expect (groups, clients, headerType) and that contract
// must not change.
type ServerConfig struct {
	HeaderType      uint32
	AmountOfGroups  uint32
	AmountOfClients uint32
}

func (s *ServerConfig) Encode(order ByteOrder, padding byte) ([]byte, error) {
	groups, err := fitUint8("ServerConfig", "amountOfGroups", s.AmountOfGroups)
	if err != nil {
		return nil, err
	}
	clients, err := fitUint8("ServerConfig", "amountOfClients", s.AmountOfClients)
	if err != nil {
		return nil, err
	}
	headerType, err := fitUint8("ServerConfig", "headerType", s.HeaderType)
	if err != nil {
		return nil, err
	}
	return []byte{groups, clients, headerType}, nil
}

func (s *ServerConfig) EncodeTo(w io.Writer, order ByteOrder, padding byte) error {
	buf, err := s.Encode(order, padding)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func (s *ServerConfig) Decode(buf []byte, order ByteOrder) error {
	if len(buf) < ServerConfigSize {
		return truncatedErr("ServerConfig", len(buf), ServerConfigSize)
	}
	s.AmountOfGroups = uint32(buf[0])
	s.AmountOfClients = uint32(buf[1])
	s.HeaderType = uint32(buf[2])
	return nil
}

// DecodeClientGroupConfigs decodes amount consecutive ClientGroupConfig
// records from the start of buf.
func DecodeClientGroupConfigs(buf []byte, amount int, order ByteOrder) ([]ClientGroupConfig, error) {
	out := make([]ClientGroupConfig, amount)
	for i := range out {
		off := i * ClientGroupConfigSize
		if off > len(buf) {
			return nil, truncatedErr("ClientGroupConfig", len(buf), (i+1)*ClientGroupConfigSize)
		}
		if err := out[i].Decode(buf[off:], order); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeServerSideClientConfigs decodes amount consecutive
// ServerSideClientConfig records from the start of buf.
func DecodeServerSideClientConfigs(buf []byte, amount int, order ByteOrder) ([]ServerSideClientConfig, error) {
	out := make([]ServerSideClientConfig, amount)
	for i := range out {
		off := i * ServerSideClientConfigSize
		if off > len(buf) {
			return nil, truncatedErr("ServerSideClientConfig", len(buf), (i+1)*ServerSideClientConfigSize)
		}
		if err := out[i].Decode(buf[off:], order); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeServerGroupConfigs decodes amount consecutive ServerGroupConfig
// records from the start of buf.
func DecodeServerGroupConfigs(buf []byte, amount int, order ByteOrder) ([]ServerGroupConfig, error) {
	out := make([]ServerGroupConfig, amount)
	for i := range out {
		off := i * ServerGroupConfigSize
		if off > len(buf) {
			return nil, truncatedErr("ServerGroupConfig", len(buf), (i+1)*ServerGroupConfigSize)
		}
		if err := out[i].Decode(buf[off:], order); err != nil {
			return nil, err
		}
	}
	return out, nil
}
