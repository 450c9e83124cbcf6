package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name     string              `bson:"name" json:"name"`
	Tags     []string            `bson:"tags" json:"tags"`
	ParentID *primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	ImageURL *string             `bson:"image_url" json:"image_url"`
	// TopUserID is a denormalized pointer maintained by the top-user tracker.
	// It may lag behind the finished-quiz aggregation between recomputations.
	TopUserID *primitive.ObjectID `bson:"top_user_id" json:"-"`
}

type CategoryResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Tags     []string `json:"tags"`
	ParentID *string  `json:"parent_id"`
	ImageURL *string  `json:"image_url"`
}

func (c *Category) Response() CategoryResponse {
	resp := CategoryResponse{
		ID:       c.ID.Hex(),
		Name:     c.Name,
		Tags:     c.Tags,
		ImageURL: c.ImageURL,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if c.ParentID != nil {
		hex := c.ParentID.Hex()
		resp.ParentID = &hex
	}
	return resp
}

// CategoryWithTopUser pairs a category with its current top scorer, if any.
type CategoryWithTopUser struct {
	Category CategoryResponse `json:"category"`
	TopUser  *UserResponse    `json:"top_user"`
}
