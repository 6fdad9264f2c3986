// Package hosts reads the known-hosts file: the pcsd nodes this host is
// authenticated against, with their tokens and addresses.
package hosts

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/hacfg/pkg/communication"
)

// Host is one authenticated node
type Host struct {
	Token string                      `yaml:"token"`
	Dests []communication.Destination `yaml:"dest_list"`
}

// KnownHosts maps node names to hosts
type KnownHosts struct {
	Hosts map[string]Host `yaml:"hosts"`
}

// Parse reads a known-hosts document
func Parse(data []byte) (*KnownHosts, error) {
	var kh KnownHosts
	if err := yaml.Unmarshal(data, &kh); err != nil {
		return nil, fmt.Errorf("failed to parse known hosts: %w", err)
	}
	if kh.Hosts == nil {
		kh.Hosts = make(map[string]Host)
	}
	for name, host := range kh.Hosts {
		for i, dest := range host.Dests {
			if dest.Addr == "" {
				return nil, fmt.Errorf("failed to parse known hosts: host %q destination %d has no address", name, i)
			}
		}
	}
	return &kh, nil
}

// Names lists known node names sorted
func (k *KnownHosts) Names() []string {
	names := make([]string, 0, len(k.Hosts))
	for name := range k.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target builds a communication target for a known node
func (k *KnownHosts) Target(name string) (communication.Target, bool) {
	host, ok := k.Hosts[name]
	if !ok {
		return communication.Target{}, false
	}
	return communication.NewTarget(name, host.Token, host.Dests...), true
}
