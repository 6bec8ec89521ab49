package domain

import dErrors "siteops/pkg/domain-errors"

// DocumentKind identifies the shape of a document and therefore its
// acknowledgment contract. Construct via ParseDocumentKind at trust boundaries;
// unknown kinds are rejected rather than mapped to a default.
type DocumentKind string

const (
	DocumentKindRiskPack DocumentKind = "risk_pack"
	DocumentKindBulletin DocumentKind = "bulletin"
)

var validDocumentKinds = map[DocumentKind]bool{
	DocumentKindRiskPack: true,
	DocumentKindBulletin: true,
}

// ParseDocumentKind returns CodeInvalidInput when s is empty or not a known kind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "document kind cannot be empty")
	}
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported document kind")
	}
	return k, nil
}

func (k DocumentKind) IsValid() bool {
	return validDocumentKinds[k]
}

func (k DocumentKind) String() string {
	return string(k)
}
