package stratum

import (
	"github.com/google/uuid"
)

// generators are the default generators that can be named from struct tags
// (generate=uuid) and schema files (generate: uuid).
var generators = map[string]func() (string, error){
	"uuid": newUUID,
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// DefaultUUID makes the leaf default to a random UUID. Mark the leaf Cached so the
// generated id survives between runs.
func DefaultUUID() FieldOption {
	return WithDefaultFunc(newUUID)
}
