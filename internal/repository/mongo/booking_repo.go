package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devevent/internal/database"
	"devevent/internal/domain"
)

type bookingRepository struct {
	conn database.Provider[*mongo.Database]
}

// NewBookingRepository returns a BookingRepository over the bookings collection.
func NewBookingRepository(conn database.Provider[*mongo.Database]) domain.BookingRepository {
	return &bookingRepository{conn: conn}
}

func (r *bookingRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(database.BookingsCollection), nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	eventID, err := objectID(b.EventID)
	if err != nil {
		return err
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	ts := now()
	doc := bookingDocument{
		ID:        bson.NewObjectID(),
		EventID:   eventID,
		Email:     b.Email,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	b.ID = doc.ID.Hex()
	b.CreatedAt = ts
	b.UpdatedAt = ts
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	var doc bookingDocument
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	oid, err := objectID(eventID)
	if err != nil {
		return nil, err
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{"eventId": oid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toDomain())
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	oid, err := objectID(b.ID)
	if err != nil {
		return err
	}
	eventID, err := objectID(b.EventID)
	if err != nil {
		return err
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	ts := now()
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"eventId":   eventID,
		"email":     b.Email,
		"updatedAt": ts,
	}})
	if err := updateError(res, err); err != nil {
		return err
	}
	b.UpdatedAt = ts
	return nil
}
