package communication

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// DefaultPort is where pcsd listens
const DefaultPort = 2224

// Destination is one address a node can be reached at
type Destination struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

func (d Destination) hostPort() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(d.Addr, strconv.Itoa(port))
}

// Target is a node with the addresses to try, in order
type Target struct {
	Label string
	Token string
	Dests []Destination
}

// NewTarget creates a target. Without destinations the label is used as the
// only address.
func NewTarget(label, token string, dests ...Destination) Target {
	if len(dests) == 0 {
		dests = []Destination{{Addr: label, Port: DefaultPort}}
	}
	return Target{Label: label, Token: token, Dests: dests}
}

// Request is one logical call of a node action. It moves through the
// target's destinations as connection attempts fail.
type Request struct {
	Target Target
	Action string
	Data   url.Values

	dest int
}

// NewRequest creates a request of action (e.g. remote/set_corosync_conf)
func NewRequest(target Target, action string, data url.Values) *Request {
	return &Request{Target: target, Action: action, Data: data}
}

// Host is the address the next attempt goes to
func (r *Request) Host() string {
	return r.Target.Dests[r.dest].Addr
}

// URL of the next attempt
func (r *Request) URL(scheme string) string {
	return fmt.Sprintf("%s://%s/%s", scheme, r.Target.Dests[r.dest].hostPort(), r.Action)
}

// Payload is the encoded request body
func (r *Request) Payload() string {
	if r.Data == nil {
		return ""
	}
	return r.Data.Encode()
}

// next moves to the following destination, false when there is none
func (r *Request) next() bool {
	if r.dest+1 >= len(r.Target.Dests) {
		return false
	}
	r.dest++
	return true
}
