package server

import (
	"encoding/xml"
	"net/http"

	"github.com/zoobzio/stego/internal/wire"
)

// messageResponse is returned for failures and for plain acknowledgements.
type messageResponse struct {
	XMLName xml.Name `json:"-" msgpack:"-" yaml:"-" bson:"-" xml:"response"`
	Success bool     `json:"success" msgpack:"success" yaml:"success" bson:"success" xml:"success"`
	Message string   `json:"message" msgpack:"message" yaml:"message" bson:"message" xml:"message"`
}

type encodeResponse struct {
	XMLName     xml.Name `json:"-" msgpack:"-" yaml:"-" bson:"-" xml:"response"`
	Success     bool     `json:"success" msgpack:"success" yaml:"success" bson:"success" xml:"success"`
	Message     string   `json:"message" msgpack:"message" yaml:"message" bson:"message" xml:"message"`
	DownloadURL string   `json:"download_url" msgpack:"download_url" yaml:"download_url" bson:"download_url" xml:"download_url"`
}

// decodeResponse always carries extracted_text; it is null unless a message
// was found.
type decodeResponse struct {
	XMLName       xml.Name `json:"-" msgpack:"-" yaml:"-" bson:"-" xml:"response"`
	Success       bool     `json:"success" msgpack:"success" yaml:"success" bson:"success" xml:"success"`
	Message       string   `json:"message" msgpack:"message" yaml:"message" bson:"message" xml:"message"`
	ExtractedText *string  `json:"extracted_text" msgpack:"extracted_text" yaml:"extracted_text" bson:"extracted_text" xml:"extracted_text,omitempty"`
}

type capacityResponse struct {
	XMLName  xml.Name `json:"-" msgpack:"-" yaml:"-" bson:"-" xml:"response"`
	Success  bool     `json:"success" msgpack:"success" yaml:"success" bson:"success" xml:"success"`
	Capacity int      `json:"capacity" msgpack:"capacity" yaml:"capacity" bson:"capacity" xml:"capacity"`
	Width    int      `json:"width" msgpack:"width" yaml:"width" bson:"width" xml:"width"`
	Height   int      `json:"height" msgpack:"height" yaml:"height" bson:"height" xml:"height"`
	Format   string   `json:"format" msgpack:"format" yaml:"format" bson:"format" xml:"format"`
}

type healthResponse struct {
	XMLName xml.Name `json:"-" msgpack:"-" yaml:"-" bson:"-" xml:"health"`
	Status  string   `json:"status" msgpack:"status" yaml:"status" bson:"status" xml:"status"`
	Formats []string `json:"formats" msgpack:"formats" yaml:"formats" bson:"formats" xml:"format"`
}

// write encodes v in the representation the client asked for.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	codec := wire.Negotiate(r.Header.Get("Accept"))
	data, err := codec.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "content_type", codec.ContentType(), "error", err)
		codec = wire.Default()
		if data, err = codec.Marshal(v); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	h := w.Header()
	h.Set("Content-Type", codec.ContentType())
	h.Add("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.write(w, r, status, messageResponse{Success: false, Message: message})
}
