package cib

import (
	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/reports"
)

// Section names
const (
	SectionConfiguration = "configuration"
	SectionNodes         = "nodes"
	SectionResources     = "resources"
	SectionConstraints   = "constraints"
	SectionOpDefaults    = "op_defaults"
	SectionRscDefaults   = "rsc_defaults"
)

// EmptyCIB is written to a CIB file that does not exist yet
const EmptyCIB = `<cib admin_epoch="0" epoch="1" num_updates="0" validate-with="pacemaker-2.0">
  <configuration>
    <crm_config/>
    <nodes/>
    <resources/>
    <constraints/>
  </configuration>
  <status/>
</cib>
`

// Document is an in-memory CIB
type Document struct {
	doc *etree.Document
}

// Parse builds a document from CIB XML
func Parse(xml string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, reports.NewLibraryError(reports.NewInvalidCIBContent(err.Error()))
	}
	root := doc.Root()
	if root == nil {
		return nil, reports.NewLibraryError(reports.NewInvalidCIBContent("document is empty"))
	}
	if root.Tag != "cib" {
		return nil, reports.NewLibraryError(reports.NewInvalidCIBContent("root element is '" + root.Tag + "', expected 'cib'"))
	}
	return &Document{doc: doc}, nil
}

// Root returns the cib element
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// String serializes the document
func (d *Document) String() (string, error) {
	return d.doc.WriteToString()
}

// Configuration returns the mandatory configuration section
func (d *Document) Configuration() (*etree.Element, error) {
	conf := d.Root().SelectElement(SectionConfiguration)
	if conf == nil {
		return nil, reports.NewLibraryError(reports.NewCIBCannotFindMandatorySection(SectionConfiguration))
	}
	return conf, nil
}

// Nodes returns the mandatory configuration/nodes section
func (d *Document) Nodes() (*etree.Element, error) {
	return d.mandatory(SectionNodes)
}

// Resources returns the mandatory configuration/resources section
func (d *Document) Resources() (*etree.Element, error) {
	return d.mandatory(SectionResources)
}

func (d *Document) mandatory(name string) (*etree.Element, error) {
	conf, err := d.Configuration()
	if err != nil {
		return nil, err
	}
	section := conf.SelectElement(name)
	if section == nil {
		return nil, reports.NewLibraryError(reports.NewCIBCannotFindMandatorySection(SectionConfiguration + "/" + name))
	}
	return section, nil
}

// SectionExists reports whether an optional configuration section exists
func (d *Document) SectionExists(name string) bool {
	conf, err := d.Configuration()
	if err != nil {
		return false
	}
	return conf.SelectElement(name) != nil
}

// EnsureSection returns an optional configuration section, creating it when
// missing
func (d *Document) EnsureSection(name string) (*etree.Element, error) {
	conf, err := d.Configuration()
	if err != nil {
		return nil, err
	}
	if section := conf.SelectElement(name); section != nil {
		return section, nil
	}
	return conf.CreateElement(name), nil
}
