package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/operations"
)

// parseNameValues turns NAME=VALUE arguments into a map. An empty value is
// kept, it removes the option.
func parseNameValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("missing value of '%s' option", arg)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("duplicate option '%s'", name)
		}
		out[name] = value
	}
	return out, nil
}

// createArgs are the parts of `resource create ID AGENT ...`
type createArgs struct {
	id       string
	agent    string
	instance map[string]string
	meta     map[string]string
	ops      []operations.Operation
}

// parseCreateArgs splits the arguments at the op and meta keywords
func parseCreateArgs(args []string) (*createArgs, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("resource id and agent are required")
	}
	parsed := &createArgs{id: args[0], agent: args[1]}

	var instance, meta []string
	var opGroups [][]string
	section := "instance"
	for _, arg := range args[2:] {
		switch arg {
		case "op":
			section = "op"
			opGroups = append(opGroups, nil)
			continue
		case "meta":
			section = "meta"
			continue
		}
		switch section {
		case "op":
			opGroups[len(opGroups)-1] = append(opGroups[len(opGroups)-1], arg)
		case "meta":
			meta = append(meta, arg)
		default:
			instance = append(instance, arg)
		}
	}

	var err error
	if parsed.instance, err = parseNameValues(instance); err != nil {
		return nil, err
	}
	if parsed.meta, err = parseNameValues(meta); err != nil {
		return nil, err
	}
	for _, group := range opGroups {
		if len(group) == 0 {
			return nil, fmt.Errorf("operation name is missing after 'op'")
		}
		op, err := parseNameValues(group[1:])
		if err != nil {
			return nil, err
		}
		op["name"] = group[0]
		parsed.ops = append(parsed.ops, op)
	}
	return parsed, nil
}

// waitNoTimeout is the value of a bare --wait
const waitNoTimeout = "default"

func addWaitFlag(cmd *cobra.Command) {
	cmd.Flags().String("wait", "", "Wait for the cluster to settle, optionally with a timeout (e.g. --wait=60s)")
	cmd.Flags().Lookup("wait").NoOptDefVal = waitNoTimeout
}

func waitFromFlags(cmd *cobra.Command) env.Wait {
	if !cmd.Flags().Changed("wait") {
		return env.NoWait
	}
	value, _ := cmd.Flags().GetString("wait")
	if value == waitNoTimeout {
		return env.WaitFor("")
	}
	return env.WaitFor(value)
}
