package har

import (
	"time"

	"github.com/goccy/go-json"
)

// Document is a typed view of an HTTP Archive, used by the recorder and the
// mock server. Splitting and merging work on raw bytes instead so unknown
// fields survive.
type Document struct {
	Log Log `json:"log"`
}

// Log contains the entries of a capture.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Pages   []Page  `json:"pages"`
	Entries []Entry `json:"entries"`
}

// Creator names the tool that produced the capture.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Page groups entries by page load.
type Page struct {
	StartedDateTime time.Time `json:"startedDateTime"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
}

// Entry is a single request/response pair.
type Entry struct {
	StartedDateTime time.Time `json:"startedDateTime"`
	Time            float64   `json:"time"`
	Request         Request   `json:"request"`
	Response        Response  `json:"response"`
	Cache           struct{}  `json:"cache"`
	Timings         Timings   `json:"timings"`
}

// Request is the recorded request.
type Request struct {
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	HTTPVersion string    `json:"httpVersion"`
	Cookies     []Cookie  `json:"cookies"`
	Headers     []Header  `json:"headers"`
	QueryString []Query   `json:"queryString"`
	PostData    *PostData `json:"postData,omitempty"`
	HeadersSize int       `json:"headersSize"`
	BodySize    int       `json:"bodySize"`
}

// Response is the recorded response.
type Response struct {
	Status      int      `json:"status"`
	StatusText  string   `json:"statusText"`
	HTTPVersion string   `json:"httpVersion"`
	Cookies     []Cookie `json:"cookies"`
	Headers     []Header `json:"headers"`
	Content     Content  `json:"content"`
	RedirectURL string   `json:"redirectURL"`
	HeadersSize int      `json:"headersSize"`
	BodySize    int      `json:"bodySize"`
}

type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Query struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData is the request body.
type PostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Content is the response body. Encoding is "base64" for binary bodies.
type Content struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// Timings are in milliseconds; -1 means not applicable.
type Timings struct {
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// NewDocument returns an empty capture created by the named tool.
func NewDocument(creator, version string) *Document {
	return &Document{Log: Log{
		Version: "1.2",
		Creator: Creator{Name: creator, Version: version},
		Pages:   []Page{},
		Entries: []Entry{},
	}}
}

// Decode validates data and decodes it into a Document.
func Decode(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, ErrHarParseFailed.With(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrHarParseFailed.With(err)
	}
	return &doc, nil
}

// Encode renders the document tab indented.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "\t")
}
