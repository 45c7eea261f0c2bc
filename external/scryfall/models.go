package scryfall

type searchPage struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page"`
	Data       []card `json:"data"`
}

type card struct {
	OracleID      string     `json:"oracle_id"`
	Name          string     `json:"name"`
	Layout        string     `json:"layout"`
	TypeLine      string     `json:"type_line"`
	ColorIdentity []string   `json:"color_identity"`
	ImageURIs     *imageURIs `json:"image_uris"`
	CardFaces     []cardFace `json:"card_faces"`
}

// Multi-faced cards carry images, and for reversible layouts the oracle id, on their faces.
type cardFace struct {
	OracleID  string     `json:"oracle_id"`
	Name      string     `json:"name"`
	TypeLine  string     `json:"type_line"`
	ImageURIs *imageURIs `json:"image_uris"`
}

type imageURIs struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

type apiError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

func (c card) oracleID() string {
	if c.OracleID != "" {
		return c.OracleID
	}
	for _, face := range c.CardFaces {
		if face.OracleID != "" {
			return face.OracleID
		}
	}
	return ""
}

func (c card) typeLine() string {
	if c.TypeLine != "" {
		return c.TypeLine
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].TypeLine
	}
	return ""
}

func (c card) normalImage() string {
	if c.ImageURIs != nil && c.ImageURIs.Normal != "" {
		return c.ImageURIs.Normal
	}
	for _, face := range c.CardFaces {
		if face.ImageURIs != nil && face.ImageURIs.Normal != "" {
			return face.ImageURIs.Normal
		}
	}
	return ""
}
