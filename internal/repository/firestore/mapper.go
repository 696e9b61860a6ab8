package firestore

import (
	"strconv"
	"time"

	"cloud.google.com/go/firestore"

	"clubrenting-backend/internal/domain"
)

// Decoding is kept in plain functions over (id, raw map) pairs so the
// document shapes can be exercised in tests without a Firestore
// connection. Every missing or mistyped required field becomes a
// *domain.MalformedRecordError; nothing is silently defaulted.

func malformed(collection, id, field, reason string) error {
	return &domain.MalformedRecordError{Collection: collection, ID: id, Field: field, Reason: reason}
}

func decodeSection(id string, data map[string]interface{}) (domain.Section, error) {
	displayName, ok := data["displayName"].(string)
	if !ok {
		return domain.Section{}, malformed(sectionsCollection, id, "displayName", "missing or not a string")
	}
	return domain.Section{ID: id, DisplayName: displayName}, nil
}

func decodeItem(id string, data map[string]interface{}, sections map[string]domain.Section) (domain.InventoryItem, error) {
	displayName, ok := data["displayName"].(string)
	if !ok {
		return domain.InventoryItem{}, malformed(inventoryCollection, id, "displayName", "missing or not a string")
	}

	sectionRef, ok := data["section"].(*firestore.DocumentRef)
	if !ok {
		return domain.InventoryItem{}, malformed(inventoryCollection, id, "section", "missing or not a reference")
	}
	section, ok := sections[sectionRef.ID]
	if !ok {
		return domain.InventoryItem{}, malformed(inventoryCollection, id, "section", "references unknown section "+sectionRef.ID)
	}

	quantity, ok := asInt(data["quantity"])
	if !ok || quantity < 0 {
		return domain.InventoryItem{}, malformed(inventoryCollection, id, "quantity", "missing or not a non-negative integer")
	}

	attributes := make(map[domain.AttributeKey]string)
	if raw, present := data["attributes"]; present && raw != nil {
		attrMap, ok := raw.(map[string]interface{})
		if !ok {
			return domain.InventoryItem{}, malformed(inventoryCollection, id, "attributes", "not a map")
		}
		for key, value := range attrMap {
			str, ok := value.(string)
			if !ok {
				return domain.InventoryItem{}, malformed(inventoryCollection, id, "attributes."+key, "not a string")
			}
			attributes[domain.AttributeKey(key)] = str
		}
	}

	var price *domain.Price
	if raw, present := data["price"]; present && raw != nil {
		decoded, err := decodePrice(id, raw)
		if err != nil {
			return domain.InventoryItem{}, err
		}
		price = decoded
	}

	return domain.InventoryItem{
		ID:          id,
		DisplayName: displayName,
		Section:     section,
		Quantity:    quantity,
		Attributes:  attributes,
		Price:       price,
	}, nil
}

// decodePrice tolerates the amount being stored as either a number or a
// numeric string; both shapes exist in the catalog documents.
func decodePrice(itemID string, raw interface{}) (*domain.Price, error) {
	priceMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, malformed(inventoryCollection, itemID, "price", "not a map")
	}

	var amount float64
	switch v := priceMap["amount"].(type) {
	case float64:
		amount = v
	case int64:
		amount = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, malformed(inventoryCollection, itemID, "price.amount", "not numeric: "+v)
		}
		amount = parsed
	default:
		return nil, malformed(inventoryCollection, itemID, "price.amount", "missing or not numeric")
	}
	if amount < 0 {
		return nil, malformed(inventoryCollection, itemID, "price.amount", "negative")
	}

	periodName, ok := priceMap["period"].(string)
	if !ok {
		return nil, malformed(inventoryCollection, itemID, "price.period", "missing or not a string")
	}
	period, err := domain.ParsePricingPeriod(periodName)
	if err != nil {
		return nil, malformed(inventoryCollection, itemID, "price.period", err.Error())
	}

	return &domain.Price{Amount: amount, Period: period}, nil
}

func decodeRental(id string, data map[string]interface{}, items map[string]domain.InventoryItem) (domain.RentingData, error) {
	timestamp, ok := data["timestamp"].(time.Time)
	if !ok {
		return domain.RentingData{}, malformed(rentingCollection, id, "timestamp", "missing or not a timestamp")
	}

	userUID, ok := data["user"].(string)
	if !ok {
		return domain.RentingData{}, malformed(rentingCollection, id, "user", "missing or not a string")
	}

	itemRef, ok := data["item"].(*firestore.DocumentRef)
	if !ok {
		return domain.RentingData{}, malformed(rentingCollection, id, "item", "missing or not a reference")
	}
	item, ok := items[itemRef.ID]
	if !ok {
		return domain.RentingData{}, malformed(rentingCollection, id, "item", "references unknown item "+itemRef.ID)
	}

	amount, ok := asInt(data["amount"])
	if !ok || amount < 0 {
		return domain.RentingData{}, malformed(rentingCollection, id, "amount", "missing or not a non-negative integer")
	}

	rental := domain.RentingData{
		ID:        id,
		Timestamp: timestamp,
		UserUID:   userUID,
		Item:      item,
		Amount:    amount,
	}

	if start, ok := data["start_date"].(time.Time); ok {
		rental.StartDate = &start
	}
	if end, ok := data["end_date"].(time.Time); ok {
		rental.EndDate = &end
	}

	if raw, present := data["returned"]; present && raw != nil {
		returnedMap, ok := raw.(map[string]interface{})
		if !ok {
			return domain.RentingData{}, malformed(rentingCollection, id, "returned", "not a map")
		}
		returnedBy, ok := returnedMap["returned_by"].(string)
		if !ok {
			return domain.RentingData{}, malformed(rentingCollection, id, "returned.returned_by", "missing or not a string")
		}
		returnedAt, ok := returnedMap["timestamp"].(time.Time)
		if !ok {
			return domain.RentingData{}, malformed(rentingCollection, id, "returned.timestamp", "missing or not a timestamp")
		}
		rental.Returned = &domain.ReturnData{ReturnedByUID: returnedBy, Timestamp: returnedAt}
	}

	return rental, nil
}

func asInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
