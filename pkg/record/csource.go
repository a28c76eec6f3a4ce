package record

import (
	"bytes"
	"fmt"
	"strings"
)

// cByteArray renders a byte sequence as a C array literal with one
// two-digit hex value per line, matching the layout the embedded side's
// developers review in the generated files.
func cByteArray(b []byte) string {
	var sb strings.Builder
	sb.WriteString("\n    {\n")
	for _, v := range b {
		fmt.Fprintf(&sb, "        0x%02X,\n", v)
	}
	sb.WriteString("    }")
	return sb.String()
}

func padBytes(padding byte, n int) []byte {
	return bytes.Repeat([]byte{padding}, n)
}

// CSource renders the record as a C named-initializer literal. The field
// values are identical to the binary encoding; padding bytes are spelled
// out explicitly instead of being implied by the layout.
func (c *ClientConfig) CSource(padding byte) string {
	return fmt.Sprintf(`{
    .timeoutReqToResMillis = %d,
    .ltk = %s,
    .sid = %d,
    .headerType = %d,
    .amountOfGroups = %d,
    .unusedPadding = %s,
}`,
		c.TimeoutReqToResMillis,
		cByteArray(c.LTK),
		c.SID,
		c.HeaderType,
		c.AmountOfGroups,
		cByteArray(padBytes(padding, 1)))
}

func (g *ClientGroupConfig) CSource(padding byte) string {
	return fmt.Sprintf(`{
    .maxCtrnonceDelayMsgs = %d,
    .maxSilenceIntervalMillis = %d,
    .sessionRenewalDurationMillis = %d,
    .gid = %d,
    .unusedPadding = %s,
}`,
		g.MaxCtrnonceDelayMsgs,
		g.MaxSilenceIntervalMillis,
		g.SessionRenewalDurationMillis,
		g.GID,
		cByteArray(padBytes(padding, 3)))
}

func (c *ServerSideClientConfig) CSource(padding byte) string {
	return fmt.Sprintf(`{
    .sid = %d,
    .ltk = %s,
}`,
		c.SID,
		cByteArray(c.LTK))
}

func (g *ServerGroupConfig) CSource(padding byte) string {
	return fmt.Sprintf(`{
    .maxCtrnonceDelayMsgs = %d,
    .ctrNonceUpperLimit = 0x%06X,
    .sessionDurationMillis = %d,
    .delayBetweenRenNotificationsMillis = %d,
    .clientSidsInGroupBitmap = 0x%08X,
    .maxSilenceIntervalMillis = %d,
    .gid = %d,
    .unusedPadding = %s,
}`,
		g.MaxCtrnonceDelayMsgs,
		g.CtrNonceUpperLimit,
		g.SessionDurationMillis,
		g.DelayBetweenRenNotificationsMillis,
		g.ClientSidsInGroupBitmap,
		g.MaxSilenceIntervalMillis,
		g.GID,
		cByteArray(padBytes(padding, 1)))
}

func (s *ServerConfig) CSource(padding byte) string {
	return fmt.Sprintf(`{
    .amountOfGroups = %d,
    .amountOfClients = %d,
    .headerType = %d,
}`,
		s.AmountOfGroups,
		s.AmountOfClients,
		s.HeaderType)
}
