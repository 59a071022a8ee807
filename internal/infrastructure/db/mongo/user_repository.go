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

const collectionUsers = "users"

type UserRepository struct {
	col  *mongo.Collection
	opts RepositoryOptions
}

func NewUserRepository(db *mongo.Database, opts RepositoryOptions) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), opts: opts.normalize()}
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
	Roles    []string           `bson:"roles"`
	Active   bool               `bson:"active"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		Roles:        d.Roles,
		Active:       d.Active,
	}
}

// List returns every user in natural order.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate("find user", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs resolves all ids with a single $in query. Malformed and unknown
// ids are left out of the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	out := make(map[string]*domain.User, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, fmt.Errorf("find users by id: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for i := range docs {
		u := docs[i].toDomain()
		out[u.ID] = u
	}
	return out, nil
}

// FindByUsername matches username under the repository collation.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc userDocument
	err := r.col.FindOne(ctx,
		bson.M{"username": username},
		options.FindOne().SetCollation(r.opts.mongoCollation()),
	).Decode(&doc)
	if err != nil {
		return nil, translate("find user by username", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	doc := userDocument{
		Username: user.Username,
		Password: user.PasswordHash,
		Roles:    user.Roles,
		Active:   user.Active,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, translate("insert user", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// Update overwrites every stored field of the user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := objectID(user.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"username": user.Username,
		"password": user.PasswordHash,
		"roles":    user.Roles,
		"active":   user.Active,
	}})
	if err != nil {
		return nil, translate("update user", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	updated := *user
	return &updated, nil
}

// Delete removes the user and returns the document as it was.
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate("delete user", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the collation-aware username index. With unique set,
// the index also closes the race between the duplicate check and the insert.
func (r *UserRepository) EnsureIndexes(ctx context.Context, unique bool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_collated").
			SetCollation(r.opts.mongoCollation()).
			SetUnique(unique),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}
