package reports

import (
	"fmt"
	"sort"
	"strings"
)

// Code identifies a report
type Code string

const (
	RequiredOptionIsMissing                Code = "REQUIRED_OPTION_IS_MISSING"
	InvalidOptions                         Code = "INVALID_OPTIONS"
	InvalidOptionValue                     Code = "INVALID_OPTION_VALUE"
	MutuallyExclusiveOptions               Code = "MUTUALLY_EXCLUSIVE_OPTIONS"
	InvalidID                              Code = "INVALID_ID"
	EmptyID                                Code = "EMPTY_ID"
	IDAlreadyExists                        Code = "ID_ALREADY_EXISTS"
	InvalidTimeoutValue                    Code = "INVALID_TIMEOUT_VALUE"
	InvalidResourceAgentName               Code = "INVALID_RESOURCE_AGENT_NAME"
	ResourceOperationIntervalDuplication   Code = "RESOURCE_OPERATION_INTERVAL_DUPLICATION"
	ResourceOperationIntervalAdapted       Code = "RESOURCE_OPERATION_INTERVAL_ADAPTED"
	DefaultsCanBeOverriden                 Code = "DEFAULTS_CAN_BE_OVERRIDEN"
	NodeAttributeChangeApplied             Code = "NODE_ATTRIBUTE_CHANGE_APPLIED"
	CorosyncConfigDistributionStarted      Code = "COROSYNC_CONFIG_DISTRIBUTION_STARTED"
	CorosyncConfigAcceptedByNode           Code = "COROSYNC_CONFIG_ACCEPTED_BY_NODE"
	CorosyncConfigDistributionNodeError    Code = "COROSYNC_CONFIG_DISTRIBUTION_NODE_ERROR"
	NodeNotFound                           Code = "NODE_NOT_FOUND"
	BadClusterStateFormat                  Code = "BAD_CLUSTER_STATE_FORMAT"
	CIBCannotFindMandatorySection          Code = "CIB_CANNOT_FIND_MANDATORY_SECTION"
	WaitForIdleTimedOut                    Code = "WAIT_FOR_IDLE_TIMED_OUT"
	WaitForIdleError                       Code = "WAIT_FOR_IDLE_ERROR"
	LiveEnvironmentRequiredForLocalNode    Code = "LIVE_ENVIRONMENT_REQUIRED_FOR_LOCAL_NODE"
	WaitForIdleNotLiveCluster              Code = "WAIT_FOR_IDLE_NOT_LIVE_CLUSTER"
	WaitForIdleNotSupported                Code = "WAIT_FOR_IDLE_NOT_SUPPORTED"
	CIBAlreadyLoaded                       Code = "CIB_ALREADY_LOADED"
	CIBNotLoaded                           Code = "CIB_NOT_LOADED"
	NoKnownHosts                           Code = "NO_KNOWN_HOSTS"
	FileIOError                            Code = "FILE_IO_ERROR"
	InvalidCIBContent                      Code = "INVALID_CIB_CONTENT"
	CIBLoadError                           Code = "CIB_LOAD_ERROR"
	CIBPushError                           Code = "CIB_PUSH_ERROR"
	CrmMonError                            Code = "CRM_MON_ERROR"
	PacemakerLocalNodeNameNotFound         Code = "PACEMAKER_LOCAL_NODE_NAME_NOT_FOUND"
	UnableToGetAgentMetadata               Code = "UNABLE_TO_GET_AGENT_METADATA"
	NodeCommunicationStarted               Code = "NODE_COMMUNICATION_STARTED"
	NodeCommunicationFinished              Code = "NODE_COMMUNICATION_FINISHED"
	NodeCommunicationNotConnected          Code = "NODE_COMMUNICATION_NOT_CONNECTED"
	NodeCommunicationRetrying              Code = "NODE_COMMUNICATION_RETRYING"
	NodeCommunicationNoMoreAddresses       Code = "NODE_COMMUNICATION_NO_MORE_ADDRESSES"
	NodeCommunicationProxyIsSet            Code = "NODE_COMMUNICATION_PROXY_IS_SET"
	NodeCommunicationCommandUnsuccessful   Code = "NODE_COMMUNICATION_COMMAND_UNSUCCESSFUL"
	NodeCommunicationErrorNotAuthorized    Code = "NODE_COMMUNICATION_ERROR_NOT_AUTHORIZED"
	NodeCommunicationErrorPermissionDenied Code = "NODE_COMMUNICATION_ERROR_PERMISSION_DENIED"
	NodeCommunicationErrorUnsupported      Code = "NODE_COMMUNICATION_ERROR_UNSUPPORTED_COMMAND"
	NodeCommunicationErrorOther            Code = "NODE_COMMUNICATION_ERROR"
	NodeCommunicationErrorTimedOut         Code = "NODE_COMMUNICATION_ERROR_TIMED_OUT"
	NodeCommunicationErrorUnableToConnect  Code = "NODE_COMMUNICATION_ERROR_UNABLE_TO_CONNECT"
)

// Options

// RequiredOptionPayload names required options that were not supplied
type RequiredOptionPayload struct {
	OptionNames []string
	OptionType  string
}

func (p RequiredOptionPayload) message() string {
	return fmt.Sprintf("required %s option(s) %s missing", p.OptionType, quoteList(p.OptionNames))
}

// NewRequiredOptionIsMissing reports required options that were not supplied
func NewRequiredOptionIsMissing(names []string, optionType string) Item {
	p := RequiredOptionPayload{OptionNames: sorted(names), OptionType: optionType}
	return newItem(KindValidation, RequiredOptionIsMissing, SeverityError, p)
}

// InvalidOptionsPayload names options that are not allowed
type InvalidOptionsPayload struct {
	OptionNames []string
	OptionType  string
	Allowed     []string
}

func (p InvalidOptionsPayload) message() string {
	return fmt.Sprintf("invalid %s option(s) %s, allowed options are: %s",
		p.OptionType, quoteList(p.OptionNames), strings.Join(p.Allowed, ", "))
}

// NewInvalidOptions reports option names that are not allowed
func NewInvalidOptions(names, allowed []string, optionType string, severity Severity, forceable bool, force ForceCode) Item {
	p := InvalidOptionsPayload{
		OptionNames: sorted(names),
		OptionType:  optionType,
		Allowed:     sorted(allowed),
	}
	return withForce(newItem(KindValidation, InvalidOptions, severity, p), forceable, force)
}

// MutuallyExclusivePayload names options that cannot be used together
type MutuallyExclusivePayload struct {
	OptionNames []string
	OptionType  string
}

func (p MutuallyExclusivePayload) message() string {
	return fmt.Sprintf("only one of %s option(s) %s can be used", p.OptionType, quoteList(p.OptionNames))
}

// NewMutuallyExclusiveOptions reports options that cannot be used together
func NewMutuallyExclusiveOptions(names []string, optionType string) Item {
	p := MutuallyExclusivePayload{OptionNames: sorted(names), OptionType: optionType}
	return newItem(KindValidation, MutuallyExclusiveOptions, SeverityError, p)
}

// OptionValuePayload describes a value outside of its allowed set
type OptionValuePayload struct {
	OptionName  string
	OptionValue string
	Allowed     []string
}

func (p OptionValuePayload) message() string {
	return fmt.Sprintf("'%s' is not a valid %s value, use %s",
		p.OptionValue, p.OptionName, strings.Join(p.Allowed, ", "))
}

// NewInvalidOptionValue reports a value not in the allowed set
func NewInvalidOptionValue(name, value string, allowed []string, severity Severity, forceable bool, force ForceCode) Item {
	p := OptionValuePayload{OptionName: name, OptionValue: value, Allowed: allowed}
	return withForce(newItem(KindValidation, InvalidOptionValue, severity, p), forceable, force)
}

// IDs

// InvalidIDPayload describes a syntactically invalid id
type InvalidIDPayload struct {
	ID               string
	Description      string
	InvalidCharacter string
	IsFirstChar      bool
}

func (p InvalidIDPayload) message() string {
	if p.IsFirstChar {
		return fmt.Sprintf("invalid %s '%s', '%s' is not a valid first character for a %s",
			p.Description, p.ID, p.InvalidCharacter, p.Description)
	}
	return fmt.Sprintf("invalid %s '%s', '%s' is not a valid character for a %s",
		p.Description, p.ID, p.InvalidCharacter, p.Description)
}

// NewInvalidID reports an id with an invalid character
func NewInvalidID(id, description, char string, isFirst bool) Item {
	p := InvalidIDPayload{ID: id, Description: description, InvalidCharacter: char, IsFirstChar: isFirst}
	return newItem(KindValidation, InvalidID, SeverityError, p)
}

// EmptyIDPayload describes an empty id
type EmptyIDPayload struct {
	Description string
}

func (p EmptyIDPayload) message() string {
	return fmt.Sprintf("%s cannot be empty", p.Description)
}

// NewEmptyID reports an empty id
func NewEmptyID(description string) Item {
	return newItem(KindValidation, EmptyID, SeverityError, EmptyIDPayload{Description: description})
}

// IDPayload names an id
type IDPayload struct {
	ID string
}

func (p IDPayload) message() string {
	return fmt.Sprintf("'%s' already exists", p.ID)
}

// NewIDAlreadyExists reports an id collision in the document
func NewIDAlreadyExists(id string) Item {
	return newItem(KindValidation, IDAlreadyExists, SeverityError, IDPayload{ID: id})
}

// TimeoutPayload names a timeout value
type TimeoutPayload struct {
	Timeout string
}

func (p TimeoutPayload) message() string {
	return fmt.Sprintf("'%s' is not a valid number of seconds to wait", p.Timeout)
}

// NewInvalidTimeoutValue reports a timeout that cannot be parsed
func NewInvalidTimeoutValue(timeout string) Item {
	return newItem(KindValidation, InvalidTimeoutValue, SeverityError, TimeoutPayload{Timeout: timeout})
}

// AgentPayload names a resource agent and an optional reason
type AgentPayload struct {
	Agent  string
	Reason string
}

func (p AgentPayload) message() string {
	if p.Reason == "" {
		return fmt.Sprintf("invalid resource agent name '%s', use standard:provider:type or standard:type", p.Agent)
	}
	return fmt.Sprintf("unable to get metadata of agent '%s': %s", p.Agent, p.Reason)
}

// NewInvalidResourceAgentName reports a malformed agent name
func NewInvalidResourceAgentName(agent string) Item {
	return newItem(KindValidation, InvalidResourceAgentName, SeverityError, AgentPayload{Agent: agent})
}

// NewUnableToGetAgentMetadata reports an agent whose metadata cannot be read
func NewUnableToGetAgentMetadata(agent, reason string) Item {
	return newItem(KindResourceState, UnableToGetAgentMetadata, SeverityError, AgentPayload{Agent: agent, Reason: reason})
}

// Operations

// IntervalDuplicationPayload lists, per operation name, the groups of
// intervals that normalize to the same value
type IntervalDuplicationPayload struct {
	Duplications map[string][][]string
}

func (p IntervalDuplicationPayload) message() string {
	names := make([]string, 0, len(p.Duplications))
	for name := range p.Duplications {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		for _, group := range p.Duplications[name] {
			parts = append(parts, fmt.Sprintf("%s with intervals %s", name, strings.Join(group, ", ")))
		}
	}
	return "multiple operations with the same name and interval: " + strings.Join(parts, "; ")
}

// NewResourceOperationIntervalDuplication reports colliding operation intervals
func NewResourceOperationIntervalDuplication(duplications map[string][][]string) Item {
	p := IntervalDuplicationPayload{Duplications: duplications}
	return newItem(KindValidation, ResourceOperationIntervalDuplication, SeverityError, p)
}

// IntervalAdaptedPayload describes an interval moved to keep operations unique
type IntervalAdaptedPayload struct {
	OperationName    string
	OriginalInterval string
	AdaptedInterval  string
}

func (p IntervalAdaptedPayload) message() string {
	return fmt.Sprintf("changing a %s operation interval from %s to %s to make the operation unique",
		p.OperationName, p.OriginalInterval, p.AdaptedInterval)
}

// NewResourceOperationIntervalAdapted reports a default operation whose interval
// was shifted to avoid a collision
func NewResourceOperationIntervalAdapted(name, original, adapted string) Item {
	p := IntervalAdaptedPayload{OperationName: name, OriginalInterval: original, AdaptedInterval: adapted}
	return newItem(KindValidation, ResourceOperationIntervalAdapted, SeverityInfo, p)
}

type defaultsOverriden struct{}

func (defaultsOverriden) message() string {
	return "defaults do not apply to resources which override them with their own defined values"
}

// NewDefaultsCanBeOverriden is emitted whenever resource or operation defaults
// are changed
func NewDefaultsCanBeOverriden() Item {
	return newItem(KindValidation, DefaultsCanBeOverriden, SeverityInfo, defaultsOverriden{})
}

// Nodes and cluster state

// NodePayload names a node
type NodePayload struct {
	Node string
}

func (p NodePayload) message() string {
	return fmt.Sprintf("node '%s' does not appear to exist in configuration", p.Node)
}

// NewNodeNotFound reports a node missing from the cluster state
func NewNodeNotFound(node string) Item {
	return newItem(KindResourceState, NodeNotFound, SeverityError, NodePayload{Node: node})
}

// NodeAttrsPayload describes node attributes applied to a node
type NodeAttrsPayload struct {
	Node  string
	Attrs map[string]string
}

func (p NodeAttrsPayload) message() string {
	names := make([]string, 0, len(p.Attrs))
	for name := range p.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, p.Attrs[name]))
	}
	return fmt.Sprintf("node '%s': %s", p.Node, strings.Join(pairs, " "))
}

// NewNodeAttributeChangeApplied records an in-memory node attribute change
func NewNodeAttributeChangeApplied(node string, attrs map[string]string) Item {
	return newItem(KindResourceState, NodeAttributeChangeApplied, SeverityDebug, NodeAttrsPayload{Node: node, Attrs: attrs})
}

// ReasonPayload carries an external failure reason
type ReasonPayload struct {
	Text   string
	Reason string
}

func (p ReasonPayload) message() string {
	if p.Reason == "" {
		return p.Text
	}
	return fmt.Sprintf("%s: %s", p.Text, p.Reason)
}

func reason(kind Kind, code Code, severity Severity, text, why string) Item {
	return newItem(kind, code, severity, ReasonPayload{Text: text, Reason: why})
}

// NewBadClusterStateFormat reports cluster state output that cannot be parsed
func NewBadClusterStateFormat(why string) Item {
	return reason(KindResourceState, BadClusterStateFormat, SeverityError, "cannot load cluster status, xml does not conform to the schema", why)
}

// NewCrmMonError reports a failed crm_mon call
func NewCrmMonError(why string) Item {
	return reason(KindResourceState, CrmMonError, SeverityError, "error running crm_mon, is pacemaker running?", why)
}

// NewPacemakerLocalNodeNameNotFound reports that crm_node did not return a name
func NewPacemakerLocalNodeNameNotFound(why string) Item {
	return reason(KindResourceState, PacemakerLocalNodeNameNotFound, SeverityError, "unable to get local node name from pacemaker", why)
}

// NewCIBCannotFindMandatorySection reports a CIB missing a required section
func NewCIBCannotFindMandatorySection(section string) Item {
	return reason(KindResourceState, CIBCannotFindMandatorySection, SeverityError, "unable to get "+section+" section of cib", "")
}

// NewWaitForIdleTimedOut reports a quiescence wait that expired
func NewWaitForIdleTimedOut(why string) Item {
	return reason(KindResourceState, WaitForIdleTimedOut, SeverityError, "waiting timeout", why)
}

// NewWaitForIdleError reports a failed quiescence wait
func NewWaitForIdleError(why string) Item {
	return reason(KindResourceState, WaitForIdleError, SeverityError, "unable to wait for the cluster to settle", why)
}

// NewInvalidCIBContent reports a CIB that is not well-formed
func NewInvalidCIBContent(why string) Item {
	return reason(KindResourceState, InvalidCIBContent, SeverityError, "invalid cib", why)
}

// NewCIBLoadError reports a failed cibadmin query
func NewCIBLoadError(why string) Item {
	return reason(KindResourceState, CIBLoadError, SeverityError, "unable to get cib", why)
}

// NewCIBPushError reports a failed cibadmin replace
func NewCIBPushError(why string) Item {
	return reason(KindResourceState, CIBPushError, SeverityError, "unable to push cib", why)
}

// Preconditions

func precondition(code Code, text string) Item {
	return reason(KindPrecondition, code, SeverityError, text, "")
}

// NewLiveEnvironmentRequiredForLocalNode is raised for local node commands on a
// CIB file
func NewLiveEnvironmentRequiredForLocalNode() Item {
	return precondition(LiveEnvironmentRequiredForLocalNode, "node(s) must be specified if -f is used")
}

// NewWaitForIdleNotLiveCluster is raised when waiting is requested on a CIB file
func NewWaitForIdleNotLiveCluster() Item {
	return precondition(WaitForIdleNotLiveCluster, "cannot use 'wait' together with a cib file")
}

// NewWaitForIdleNotSupported is raised when crm_resource lacks --wait
func NewWaitForIdleNotSupported() Item {
	return precondition(WaitForIdleNotSupported, "crm_resource does not support --wait, please upgrade pacemaker")
}

// NewCIBAlreadyLoaded is raised when a transaction loads the CIB twice
func NewCIBAlreadyLoaded() Item {
	return precondition(CIBAlreadyLoaded, "cib has already been loaded")
}

// NewCIBNotLoaded is raised when a transaction pushes a CIB it never loaded
func NewCIBNotLoaded() Item {
	return precondition(CIBNotLoaded, "cib has not been loaded")
}

// NewNoKnownHosts is raised when replication is requested with no target nodes
func NewNoKnownHosts() Item {
	return precondition(NoKnownHosts, "no known hosts to distribute the configuration to")
}

// IO

// FilePayload describes a failed file operation
type FilePayload struct {
	FileRole  string
	Path      string
	Operation string
	Reason    string
}

func (p FilePayload) message() string {
	return fmt.Sprintf("unable to %s %s '%s': %s", p.Operation, p.FileRole, p.Path, p.Reason)
}

// NewFileIOError reports a read or write failure of a persisted document
func NewFileIOError(role, path, operation, why string) Item {
	p := FilePayload{FileRole: role, Path: path, Operation: operation, Reason: why}
	return newItem(KindIO, FileIOError, SeverityError, p)
}

// Corosync distribution

type distributionStarted struct{}

func (distributionStarted) message() string {
	return "sending updated corosync.conf to nodes..."
}

// NewCorosyncConfigDistributionStarted opens a corosync.conf distribution
func NewCorosyncConfigDistributionStarted() Item {
	return newItem(KindTransport, CorosyncConfigDistributionStarted, SeverityInfo, distributionStarted{})
}

// DistributionPayload is the outcome of storing a file on one node
type DistributionPayload struct {
	Node     string
	Accepted bool
}

func (p DistributionPayload) message() string {
	if p.Accepted {
		return fmt.Sprintf("%s: Succeeded", p.Node)
	}
	return fmt.Sprintf("%s: Unable to set corosync config", p.Node)
}

// NewCorosyncConfigAcceptedByNode reports a node that stored corosync.conf
func NewCorosyncConfigAcceptedByNode(node string) Item {
	p := DistributionPayload{Node: node, Accepted: true}
	return newItem(KindTransport, CorosyncConfigAcceptedByNode, SeverityInfo, p)
}

// NewCorosyncConfigDistributionNodeError reports a node that did not store
// corosync.conf
func NewCorosyncConfigDistributionNodeError(node string, severity Severity, forceable bool, force ForceCode) Item {
	item := newItem(KindTransport, CorosyncConfigDistributionNodeError, severity, DistributionPayload{Node: node})
	return withForce(item, forceable, force)
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+v+"'")
	}
	return strings.Join(quoted, ", ")
}
