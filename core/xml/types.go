package xml

import "encoding/xml"

// Token aliases so callers need only this package.
type (
	StartElement = xml.StartElement
	EndElement   = xml.EndElement
	CharData     = xml.CharData
	Name         = xml.Name
	Attribute    = xml.Attr
	Token        = xml.Token
)
