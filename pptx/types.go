package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
// Only the parts needed for slide ordering and geometry are mapped; the
// slide bodies themselves are handled as DOMs.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string // id
	RID string // r:id
}

// UnmarshalXML reads the id and r:id attributes by namespace. Struct
// tags cannot express "unqualified only": an untagged-namespace field
// also matches the namespaced r:id attribute and gets overwritten.
func (s *slideIdXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	for _, a := range start.Attr {
		if a.Name.Local != "id" {
			continue
		}
		switch a.Name.Space {
		case "":
			s.ID = a.Value
		case relNS:
			s.RID = a.Value
		}
	}
	return d.Skip()
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // width in EMUs
	Cy int64 `xml:"cy,attr"` // height in EMUs
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
