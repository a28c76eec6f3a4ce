package compile

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelnet-bus/hzlconfig/pkg/config"
	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

func buildExample(t *testing.T) *Model {
	t.Helper()
	tree, err := config.ParseFile(filepath.Join("testdata", "example.json"))
	require.NoError(t, err)
	return Build(tree)
}

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

func TestBuildMembership(t *testing.T) {
	m := buildExample(t)

	require.Len(t, m.Clients, 3)

	// Alice and Charlie are in the broadcast group and group 1; Bob only
	// in the broadcast group.
	assert.Equal(t, uint32(2), m.Clients[0].Config.AmountOfGroups)
	assert.Equal(t, uint32(1), m.Clients[1].Config.AmountOfGroups)
	assert.Equal(t, uint32(2), m.Clients[2].Config.AmountOfGroups)

	require.Len(t, m.Clients[0].Groups, 2)
	assert.Equal(t, uint32(0), m.Clients[0].Groups[0].GID)
	assert.Equal(t, uint32(1), m.Clients[0].Groups[1].GID)

	require.Len(t, m.Clients[1].Groups, 1)
	assert.Equal(t, uint32(0), m.Clients[1].Groups[0].GID)

	assert.Equal(t, "Alice", m.Clients[0].Nickname)
	assert.Equal(t, uint32(1), m.Clients[0].Config.SID)
	assert.Equal(t, uint32(1), m.Clients[0].Config.HeaderType)
	assert.Equal(t, uint32(1000), m.Clients[0].Config.TimeoutReqToResMillis)
	// Bob's timeout came from the defaults.
	assert.Equal(t, uint32(750), m.Clients[1].Config.TimeoutReqToResMillis)
}

func TestBuildServerView(t *testing.T) {
	m := buildExample(t)

	assert.Equal(t, uint32(2), m.Server.Config.AmountOfGroups)
	assert.Equal(t, uint32(3), m.Server.Config.AmountOfClients)
	assert.Equal(t, uint32(1), m.Server.Config.HeaderType)

	require.Len(t, m.Server.Clients, 3)
	assert.Equal(t, uint32(1), m.Server.Clients[0].SID)
	assert.Len(t, m.Server.Clients[0].LTK, record.LTKSize)

	require.Len(t, m.Server.Groups, 2)
	assert.Equal(t, uint32(0xFFFFFFFF), m.Server.Groups[0].ClientSidsInGroupBitmap)
	assert.Equal(t, uint32(0b101), m.Server.Groups[1].ClientSidsInGroupBitmap)
	assert.Equal(t, uint32(22), m.Server.Groups[0].MaxCtrnonceDelayMsgs)
	assert.Equal(t, uint32(33), m.Server.Groups[1].MaxCtrnonceDelayMsgs)
	assert.Equal(t, uint32(0xFF0000), m.Server.Groups[0].CtrNonceUpperLimit)
}

func TestWriteBinaryFilesClientGolden(t *testing.T) {
	m := buildExample(t)
	dir := t.TempDir()
	require.NoError(t, m.WriteBinaryFiles(dir, record.LittleEndian, record.DefaultPadding))

	got, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigAlice.hzl"))
	require.NoError(t, err)

	want, err := hex.DecodeString(
		"485a4c6300" + // magic "HZLc\0"
			"e803" + "000102030405060708090a0b0c0d0e0f" + "010102aa" + // ClientConfig
			"16000000" + "8813" + "a00f" + "00" + "aaaaaa" + // group 0
			"21000000" + "8813" + "a00f" + "01" + "aaaaaa") // group 1
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteBinaryFilesServerFraming(t *testing.T) {
	m := buildExample(t)
	dir := t.TempDir()
	require.NoError(t, m.WriteBinaryFiles(dir, record.BigEndian, 0x5C))

	data, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigServer.hzl"))
	require.NoError(t, err)

	wantLen := len(MagicServer) + record.ServerConfigSize +
		3*record.ServerSideClientConfigSize + 2*record.ServerGroupConfigSize
	require.Len(t, data, wantLen)
	assert.Equal(t, []byte(MagicServer), data[:5])

	var cfg record.ServerConfig
	require.NoError(t, cfg.Decode(data[5:], record.BigEndian))
	assert.Equal(t, m.Server.Config, cfg)

	off := 5 + record.ServerConfigSize
	clients, err := record.DecodeServerSideClientConfigs(data[off:], 3, record.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, m.Server.Clients, clients)

	off += 3 * record.ServerSideClientConfigSize
	groups, err := record.DecodeServerGroupConfigs(data[off:], 2, record.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, m.Server.Groups, groups)
}

func TestWriteCSourceFiles(t *testing.T) {
	pinClock(t, time.Date(2022, time.May, 14, 10, 30, 0, 0, time.UTC))

	m := buildExample(t)
	dir := t.TempDir()
	require.NoError(t, m.WriteCSourceFiles(dir, record.DefaultPadding))

	alice, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigAlice.c"))
	require.NoError(t, err)
	src := string(alice)
	assert.Contains(t, src, "Copyright © 2022")
	assert.Contains(t, src, "AUTO-GENERATED FILE by hzlconfig at 2022-05-14T10:30:00Z")
	assert.Contains(t, src, "the Client Alice")
	assert.Contains(t, src, "#define AMOUNT_OF_GROUPS 2U")
	assert.Contains(t, src, ".timeoutReqToResMillis = 1000,")
	assert.Contains(t, src, ".unusedPadding = ")

	server, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigServer.c"))
	require.NoError(t, err)
	srv := string(server)
	assert.Contains(t, srv, "#define AMOUNT_OF_CLIENTS 3U")
	assert.Contains(t, srv, "#define AMOUNT_OF_GROUPS 2U")
	assert.Contains(t, srv, ".clientSidsInGroupBitmap = 0xFFFFFFFF,")
	assert.Contains(t, srv, ".ctrNonceUpperLimit = 0xFF0000,")

	clientHeader, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigClient.h"))
	require.NoError(t, err)
	assert.Contains(t, string(clientHeader), "extern hzl_ClientCtx_t hzlCtx0;")
	assert.Contains(t, string(clientHeader), "2022-05-14T10:30:00Z")

	serverHeader, err := os.ReadFile(filepath.Join(dir, "hzl_HardcodedConfigServer.h"))
	require.NoError(t, err)
	assert.Contains(t, string(serverHeader), "extern hzl_ServerCtx_t hzlCtx0;")
}

func TestCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	outDir, err := Compile(filepath.Join("testdata", "example.json"), Options{
		OutputDir: dir,
		ByteOrder: record.LittleEndian,
		Padding:   record.DefaultPadding,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, outDir)

	for _, name := range []string{
		"hzl_HardcodedConfigAlice.hzl",
		"hzl_HardcodedConfigBob.hzl",
		"hzl_HardcodedConfigCharlie.hzl",
		"hzl_HardcodedConfigServer.hzl",
		"hzl_HardcodedConfigAlice.c",
		"hzl_HardcodedConfigBob.c",
		"hzl_HardcodedConfigCharlie.c",
		"hzl_HardcodedConfigServer.c",
		"hzl_HardcodedConfigClient.h",
		"hzl_HardcodedConfigServer.h",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCompileRelativeOutputDir(t *testing.T) {
	dir := t.TempDir()
	input, err := os.ReadFile(filepath.Join("testdata", "example.json"))
	require.NoError(t, err)
	inputPath := filepath.Join(dir, "example.json")
	require.NoError(t, os.WriteFile(inputPath, input, 0o644))

	outDir, err := Compile(inputPath, Options{OutputDir: "generated"})
	require.NoError(t, err)
	// A relative output directory lands next to the input file.
	assert.Equal(t, filepath.Join(dir, "generated"), outDir)
	_, err = os.Stat(filepath.Join(outDir, "hzl_HardcodedConfigServer.hzl"))
	assert.NoError(t, err)
}

func TestCompileMissingInput(t *testing.T) {
	_, err := Compile(filepath.Join(t.TempDir(), "nope.json"), DefaultOptions())
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
}

func TestCompileInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(inputPath, []byte(`{"clients": []}`), 0o644))

	_, err := Compile(inputPath, DefaultOptions())
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
}
