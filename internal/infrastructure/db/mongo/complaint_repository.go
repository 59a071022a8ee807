package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

const collectionComplaints = "complaints"

type ComplaintRepository struct {
	col  *mongo.Collection
	opts RepositoryOptions
	now  func() time.Time
}

func NewComplaintRepository(db *mongo.Database, opts RepositoryOptions) *ComplaintRepository {
	return &ComplaintRepository{
		col:  db.Collection(collectionComplaints),
		opts: opts.normalize(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type complaintDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Title     string             `bson:"title"`
	Text      string             `bson:"text"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *complaintDocument) toDomain() *domain.Complaint {
	return &domain.Complaint{
		ID:        d.ID.Hex(),
		User:      d.User.Hex(),
		Title:     d.Title,
		Text:      d.Text,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// userRef parses the owner reference. Unlike lookups by id, a malformed
// reference on write is the caller's mistake.
func userRef(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.Validation("Invalid user id")
	}
	return oid, nil
}

func (r *ComplaintRepository) List(ctx context.Context) ([]*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	var docs []complaintDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode complaints: %w", err)
	}

	out := make([]*domain.Complaint, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc complaintDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate("find complaint", err)
	}
	return doc.toDomain(), nil
}

// FindByTitle matches title under the repository collation.
func (r *ComplaintRepository) FindByTitle(ctx context.Context, title string) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc complaintDocument
	err := r.col.FindOne(ctx,
		bson.M{"title": title},
		options.FindOne().SetCollation(r.opts.mongoCollation()),
	).Decode(&doc)
	if err != nil {
		return nil, translate("find complaint by title", err)
	}
	return doc.toDomain(), nil
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	owner, err := userRef(c.User)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	now := r.now()
	doc := complaintDocument{
		User:      owner,
		Title:     c.Title,
		Text:      c.Text,
		Completed: c.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, translate("insert complaint", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert complaint: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// Update overwrites every mutable field and bumps updatedAt.
func (r *ComplaintRepository) Update(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	oid, err := objectID(c.ID)
	if err != nil {
		return nil, err
	}
	owner, err := userRef(c.User)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	now := r.now()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"user":      owner,
		"title":     c.Title,
		"text":      c.Text,
		"completed": c.Completed,
		"updatedAt": now,
	}})
	if err != nil {
		return nil, translate("update complaint", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	updated := *c
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) (*domain.Complaint, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc complaintDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate("delete complaint", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the collation-aware title index and an index on the
// owner reference.
func (r *ComplaintRepository) EnsureIndexes(ctx context.Context, unique bool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "title", Value: 1}},
			Options: options.Index().
				SetName("title_collated").
				SetCollation(r.opts.mongoCollation()).
				SetUnique(unique),
		},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create complaints indexes: %w", err)
	}
	return nil
}
