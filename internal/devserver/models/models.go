// Package models holds the devserver's records. JSON tags follow the wire
// contract the mobile clients expect.
package models

import "time"

type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

type User struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"firstName,omitempty"`
	Email           string          `json:"email,omitempty"`
	PhoneNumber     string          `json:"phoneNumber,omitempty"`
	Status          string          `json:"status"`
	IsEmailVerified bool            `json:"isEmailVerified"`
	IsPhoneVerified bool            `json:"isPhoneVerified"`
	Profile         Profile         `json:"-"`
	KYC             *KYC            `json:"-"`
	Permissions     map[string]bool `json:"-"`
}

type Profile struct {
	FirstName           string  `json:"firstName,omitempty"`
	LastName            string  `json:"lastName,omitempty"`
	Email               string  `json:"email,omitempty"`
	PhoneNumber         string  `json:"phoneNumber,omitempty"`
	DateOfBirth         *string `json:"dateOfBirth,omitempty"`
	Gender              string  `json:"gender,omitempty"`
	MaritalStatus       string  `json:"maritalStatus,omitempty"`
	AnniversaryDate     *string `json:"anniversaryDate,omitempty"`
	ProfilePicture      *string `json:"profilePicture,omitempty"`
	DoorNumber          string  `json:"doorNumber,omitempty"`
	StreetOrVillageName string  `json:"streetOrVillageName,omitempty"`
	City                string  `json:"city,omitempty"`
	State               string  `json:"state,omitempty"`
	Pincode             string  `json:"pincode,omitempty"`
}

type KYC struct {
	Aadhaar     string `json:"aadhaar"`
	AadhaarName string `json:"aadhaarName"`
	DOB         string `json:"dob"`
	PAN         string `json:"pan"`
	BankAccount string `json:"bankAccount"`
	BankName    string `json:"bankName"`
	IFSC        string `json:"ifsc"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
}

type Movie struct {
	ID            string `json:"_id"`
	MovieName     string `json:"movieName"`
	ReleaseDate   string `json:"releaseDate,omitempty"`
	Runtime       int    `json:"runtime,omitempty"`
	Language      string `json:"language,omitempty"`
	Certificate   string `json:"certificate,omitempty"`
	Type          string `json:"type,omitempty"`
	Distributor   string `json:"distributor,omitempty"`
	Budget        string `json:"budget,omitempty"`
	AboutMovie    string `json:"aboutMovie,omitempty"`
	MovieSynopsis string `json:"movieSynopsis,omitempty"`
	MovieStatus   string `json:"movieStatus,omitempty"`
}

type Contest struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	MovieID   string    `json:"movieId,omitempty"`
	EntryFee  int       `json:"entryFee"`
	PrizePool int       `json:"prizePool"`
	EndsAt    time.Time `json:"endsAt"`
}
