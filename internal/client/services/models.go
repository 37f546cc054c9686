package services

import (
	"encoding/json"
	"strconv"
)

// Text is a string field the backend sometimes sends as a number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

type User struct {
	ID              string `json:"id,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	Email           string `json:"email,omitempty"`
	Status          string `json:"status,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified,omitempty"`
	IsPhoneVerified bool   `json:"isPhoneVerified,omitempty"`
}

// Profile is both the GET response and the PUT payload of the profile
// endpoint. Dates are yyyy-mm-dd.
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

type Media struct {
	MoviePoster   *string  `json:"moviePoster"`
	MovieBanner   *string  `json:"movieBanner"`
	TrailerVideo  []string `json:"trailerVideo"`
	GalleryImages []string `json:"galleryImages"`
}

type Movie struct {
	ID            string `json:"_id"`
	MovieName     string `json:"movieName"`
	ReleaseDate   string `json:"releaseDate,omitempty"`
	Runtime       Text   `json:"runtime,omitempty"`
	Language      string `json:"language,omitempty"`
	Certificate   string `json:"certificate,omitempty"`
	Type          string `json:"type,omitempty"`
	Distributor   string `json:"distributor,omitempty"`
	Budget        Text   `json:"budget,omitempty"`
	AboutMovie    string `json:"aboutMovie,omitempty"`
	MovieSynopsis string `json:"movieSynopsis,omitempty"`
	MovieStatus   string `json:"movieStatus,omitempty"`
	Media         *Media `json:"media,omitempty"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type MoviePage struct {
	Movies     []Movie
	Pagination Pagination
}

// Contest keeps the fields the CLI prints; the rest of the record is kept raw.
type Contest struct {
	ID   string          `json:"_id"`
	Name string          `json:"name"`
	Raw  json.RawMessage `json:"-"`
}

func (c *Contest) UnmarshalJSON(b []byte) error {
	type plain Contest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Contest(p)
	c.Raw = append(json.RawMessage(nil), b...)
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
