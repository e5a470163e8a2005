package meeting

import "fmt"

type Kind string

const (
	Zoom Kind = "zoom"
	Meet Kind = "meet"
)

var startURLs = map[Kind]string{
	Zoom: "https://zoom.us/start/videomeeting",
	Meet: "https://meet.google.com/new",
}

func StartURL(kind Kind) (string, error) {
	u, ok := startURLs[kind]
	if !ok {
		return "", fmt.Errorf("unknown call kind %q", kind)
	}
	return u, nil
}

// Opener hands a URL to the operator's browser.
type Opener interface {
	Open(url string) error
}
