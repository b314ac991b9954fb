package amadeus

import "encoding/json"

// Wire types for the provider's REST API. Only the fields the engine reads
// are declared; everything else rides along in RawMessage where a later
// call needs the untouched payload.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type offersResponse struct {
	Data []rawOffer `json:"data"`
}

type rawOffer struct {
	ID                    string               `json:"id"`
	NumberOfBookableSeats int                  `json:"numberOfBookableSeats"`
	Itineraries           []rawItinerary       `json:"itineraries"`
	Price                 rawPrice             `json:"price"`
	TravelerPricings      []rawTravelerPricing `json:"travelerPricings"`
}

type rawItinerary struct {
	Duration string       `json:"duration"`
	Segments []rawSegment `json:"segments"`
}

type rawSegment struct {
	Departure     rawEndpoint `json:"departure"`
	Arrival       rawEndpoint `json:"arrival"`
	CarrierCode   string      `json:"carrierCode"`
	Number        string      `json:"number"`
	Aircraft      rawAircraft `json:"aircraft"`
	Duration      string      `json:"duration"`
	NumberOfStops int         `json:"numberOfStops"`
}

type rawEndpoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type rawAircraft struct {
	Code string `json:"code"`
}

type rawPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type rawTravelerPricing struct {
	FareDetailsBySegment []rawFareDetail `json:"fareDetailsBySegment"`
}

type rawFareDetail struct {
	Cabin     string `json:"cabin"`
	FareBasis string `json:"fareBasis"`
	Class     string `json:"class"`
}

type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (e errorResponse) detail() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if e.Errors[0].Detail != "" {
		return e.Errors[0].Detail
	}
	return e.Errors[0].Title
}

type referenceResponse struct {
	Data []referenceEntry `json:"data"`
}

type referenceEntry struct {
	IataCode     string `json:"iataCode"`
	BusinessName string `json:"businessName"`
	CommonName   string `json:"commonName"`
	Name         string `json:"name"`
	Address      struct {
		CityName string `json:"cityName"`
	} `json:"address"`
}

// Traveler is the passenger document block the order endpoints require.
type Traveler struct {
	ID          string `json:"id"`
	DateOfBirth string `json:"dateOfBirth"`
	Name        struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
	Gender  string `json:"gender,omitempty"`
	Contact struct {
		EmailAddress string `json:"emailAddress,omitempty"`
		Phones       []struct {
			DeviceType         string `json:"deviceType"`
			CountryCallingCode string `json:"countryCallingCode"`
			Number             string `json:"number"`
		} `json:"phones,omitempty"`
	} `json:"contact,omitempty"`
	Documents []TravelerDocument `json:"documents,omitempty"`
}

type TravelerDocument struct {
	DocumentType    string `json:"documentType"`
	Number          string `json:"number"`
	ExpiryDate      string `json:"expiryDate,omitempty"`
	IssuanceCountry string `json:"issuanceCountry,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	Holder          bool   `json:"holder"`
}

// Order is the provider-side hold/booking detail returned by the order
// endpoints. Payload carries the full response for the admin side.
type Order struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

type orderEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type orderData struct {
	ID string `json:"id"`
}
