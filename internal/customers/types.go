package customers

import "time"

// Customer is the persistent identity record, keyed by email.
type Customer struct {
	Email     string    `dynamodbav:"email" json:"email"` // PK
	Name      string    `dynamodbav:"name" json:"name"`
	Phone     string    `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Address   string    `dynamodbav:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updated_at"`
}
