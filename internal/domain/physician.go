package domain

import "time"

type Physician struct {
	ID        int64     `json:"id"`
	LastName  string    `json:"lastName"`
	Specialty string    `json:"specialty"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
