package service

import (
	"github.com/shortenerproject/shortener/internal/model"
)

// guardOwner hands out link only to its owner. Everyone else receives
// notFound, so a caller cannot tell a foreign record from a missing one.
func guardOwner(link *model.Link, ownerID string, notFound error) (*model.Link, error) {
	if !link.OwnedBy(ownerID) {
		return nil, notFound
	}
	return link, nil
}
