package domain

import (
	"errors"
	"strings"
)

type ItemType string

const (
	ItemTypeDestination ItemType = "destination"
	ItemTypeCulinary    ItemType = "culinary"
)

var ErrInvalidItemType = errors.New("item_type must be destination or culinary")

func ParseItemType(value string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(value))) {
	case ItemTypeDestination:
		return ItemTypeDestination, nil
	case ItemTypeCulinary:
		return ItemTypeCulinary, nil
	}
	return "", ErrInvalidItemType
}

func (t ItemType) Valid() bool {
	return t == ItemTypeDestination || t == ItemTypeCulinary
}
