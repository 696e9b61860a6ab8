package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository"
)

const (
	sectionsCollection  = "sections"
	inventoryCollection = "inventory"
	rentingCollection   = "renting"
)

// NewClient initializes the Firestore client through the Firebase app.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}
	return client, nil
}

// Gateway implements repository.InventoryGateway over Firestore. It
// holds no state beyond the client; all reference resolution happens
// against lookup tables built per call.
type Gateway struct {
	client *firestore.Client
}

func NewGateway(client *firestore.Client) repository.InventoryGateway {
	return &Gateway{client: client}
}

// remoteErr maps transport-level failures onto domain.ErrRemoteUnavailable
// and passes everything else through wrapped.
func remoteErr(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrRemoteUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (g *Gateway) FetchSections(ctx context.Context) ([]domain.Section, error) {
	logger.ExternalServiceCall("firestore", "FetchSections")

	var sections []domain.Section
	iter := g.client.Collection(sectionsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("fetch sections", err)
		}
		section, err := decodeSection(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (g *Gateway) FetchItems(ctx context.Context, knownSections []domain.Section) ([]domain.InventoryItem, error) {
	logger.ExternalServiceCall("firestore", "FetchItems", "known_sections", len(knownSections))

	if len(knownSections) == 0 {
		fetched, err := g.FetchSections(ctx)
		if err != nil {
			return nil, err
		}
		knownSections = fetched
	}
	sectionsByID := make(map[string]domain.Section, len(knownSections))
	for _, s := range knownSections {
		sectionsByID[s.ID] = s
	}

	var items []domain.InventoryItem
	iter := g.client.Collection(inventoryCollection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr("fetch inventory", err)
		}
		item, err := decodeItem(doc.Ref.ID, doc.Data(), sectionsByID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (g *Gateway) FetchRentals(ctx context.Context) ([]domain.RentingData, error) {
	return g.fetchRentals(ctx, g.client.Collection(rentingCollection).Query, "fetch rentals")
}

func (g *Gateway) FetchUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error) {
	query := g.client.Collection(rentingCollection).Where("user", "==", userUID)
	return g.fetchRentals(ctx, query, "fetch user rentals")
}

// fetchRentals resolves each record's item reference against a freshly
// fetched inventory lookup. The inventory is fetched first, then the
// rentals, then joined in memory; no record ever carries a live remote
// handle.
func (g *Gateway) fetchRentals(ctx context.Context, query firestore.Query, op string) ([]domain.RentingData, error) {
	logger.ExternalServiceCall("firestore", op)

	items, err := g.FetchItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	var rentals []domain.RentingData
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, remoteErr(op, err)
		}
		rental, err := decodeRental(doc.Ref.ID, doc.Data(), itemsByID)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, nil
}

func (g *Gateway) InsertRental(ctx context.Context, rental *domain.RentingData) (string, error) {
	logger.ExternalServiceCall("firestore", "InsertRental", "item", rental.Item.ID, "amount", rental.Amount)

	doc := map[string]interface{}{
		"timestamp": rental.Timestamp,
		"user":      rental.UserUID,
		"item":      g.client.Collection(inventoryCollection).Doc(rental.Item.ID),
		"amount":    rental.Amount,
	}
	if rental.StartDate != nil {
		doc["start_date"] = *rental.StartDate
	}
	if rental.EndDate != nil {
		doc["end_date"] = *rental.EndDate
	}

	ref, _, err := g.client.Collection(rentingCollection).Add(ctx, doc)
	if err != nil {
		return "", remoteErr("insert rental", err)
	}
	return ref.ID, nil
}

func (g *Gateway) MarkReturned(ctx context.Context, rentalID string, ret domain.ReturnData) error {
	logger.ExternalServiceCall("firestore", "MarkReturned", "rental_id", rentalID)

	docRef := g.client.Collection(rentingCollection).Doc(rentalID)
	snapshot, err := docRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("rental %s: %w", rentalID, domain.ErrNotFound)
	}
	if err != nil {
		return remoteErr("mark returned", err)
	}
	if returned, ok := snapshot.Data()["returned"]; ok && returned != nil {
		return fmt.Errorf("rental %s: %w", rentalID, domain.ErrAlreadyReturned)
	}

	_, err = docRef.Update(ctx, []firestore.Update{{
		Path: "returned",
		Value: map[string]interface{}{
			"returned_by": ret.ReturnedByUID,
			"timestamp":   ret.Timestamp,
		},
	}})
	if err != nil {
		return remoteErr("mark returned", err)
	}
	return nil
}
