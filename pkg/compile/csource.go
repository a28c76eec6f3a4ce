package compile

import (
	"embed"
	"io"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var cTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// timeNow is swapped out by tests that pin the generation stamp.
var timeNow = time.Now

func generationStamp() (year int, timestamp string) {
	now := timeNow().UTC()
	return now.Year(), now.Format(time.RFC3339)
}

type clientTemplateData struct {
	Year           int
	Timestamp      string
	ClientName     string
	AmountOfGroups int
	ClientConfig   string
	GroupConfigs   string
}

type serverTemplateData struct {
	Year            int
	Timestamp       string
	AmountOfClients int
	AmountOfGroups  int
	ServerConfig    string
	ClientConfigs   string
	GroupConfigs    string
}

type headerTemplateData struct {
	Year      int
	Timestamp string
}

// WriteCSourceFiles writes the C source mirror of the binary artifacts
// into dir: one .c file per client, one for the server, and the two
// shared headers. The literal field values are identical to the binary
// encoding; padding bytes appear explicitly with the same fill value.
func (m *Model) WriteCSourceFiles(dir string, padding byte) error {
	if err := m.Server.writeCSource(dir, padding); err != nil {
		return err
	}
	for i := range m.Clients {
		if err := m.Clients[i].writeCSource(dir, padding); err != nil {
			return err
		}
	}
	if err := writeHeader(dir, ServerNickname); err != nil {
		return err
	}
	return writeHeader(dir, "Client")
}

func (c *Client) writeCSource(dir string, padding byte) error {
	year, timestamp := generationStamp()
	blocks := make([]string, len(c.Groups))
	for i := range c.Groups {
		blocks[i] = c.Groups[i].CSource(padding)
	}
	data := clientTemplateData{
		Year:           year,
		Timestamp:      timestamp,
		ClientName:     c.Nickname,
		AmountOfGroups: len(c.Groups),
		ClientConfig:   c.Config.CSource(padding),
		GroupConfigs:   strings.Join(blocks, ",\n"),
	}
	path := filepath.Join(dir, CSourceFileName(c.Nickname))
	return writeFile(path, func(w io.Writer) error {
		return cTemplates.ExecuteTemplate(w, "client_c.tmpl", data)
	})
}

func (s *Server) writeCSource(dir string, padding byte) error {
	year, timestamp := generationStamp()
	clientBlocks := make([]string, len(s.Clients))
	for i := range s.Clients {
		clientBlocks[i] = s.Clients[i].CSource(padding)
	}
	groupBlocks := make([]string, len(s.Groups))
	for i := range s.Groups {
		groupBlocks[i] = s.Groups[i].CSource(padding)
	}
	data := serverTemplateData{
		Year:            year,
		Timestamp:       timestamp,
		AmountOfClients: len(s.Clients),
		AmountOfGroups:  len(s.Groups),
		ServerConfig:    s.Config.CSource(padding),
		ClientConfigs:   strings.Join(clientBlocks, ",\n"),
		GroupConfigs:    strings.Join(groupBlocks, ",\n"),
	}
	path := filepath.Join(dir, CSourceFileName(ServerNickname))
	return writeFile(path, func(w io.Writer) error {
		return cTemplates.ExecuteTemplate(w, "server_c.tmpl", data)
	})
}

// writeHeader emits the shared declaration header for either "Server"
// or "Client" artifacts.
func writeHeader(dir, side string) error {
	year, timestamp := generationStamp()
	data := headerTemplateData{Year: year, Timestamp: timestamp}
	name := "client_h.tmpl"
	if side == ServerNickname {
		name = "server_h.tmpl"
	}
	path := filepath.Join(dir, FilePrefix+side+".h")
	return writeFile(path, func(w io.Writer) error {
		return cTemplates.ExecuteTemplate(w, name, data)
	})
}
