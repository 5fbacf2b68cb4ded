package chat

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Trigger distinguishes a fresh structured search from a conversational follow-up.
type Trigger string

const (
	TriggerSearch Trigger = "search"
	TriggerChat   Trigger = "chat"
)

type ErrorCode string

const (
	ErrorCodeValidation       ErrorCode = "VALIDATION_FAILED"
	ErrorCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorCodeSearchFailed     ErrorCode = "SEARCH_FAILED"
	ErrorCodeCompletionFailed ErrorCode = "COMPLETION_FAILED"
	ErrorCodeInternalFailure  ErrorCode = "INTERNAL_FAILURE"
)

// FormData is the trip-search form snapshot owned by the client.
type FormData struct {
	DeparturePlace string  `json:"departurePlace" validate:"required,notblank"`
	ReturnPlace    string  `json:"returnPlace" validate:"required,notblank"`
	DepartureDate  string  `json:"departureDate" validate:"required,isodate"`
	ReturnDate     *string `json:"returnDate" validate:"omitempty,isodate"`
}

// FormUpdates is a partial FormData inferred by the assistant. A nil field
// means "leave unchanged".
type FormUpdates struct {
	DeparturePlace *string `json:"departurePlace" nullable:"true" description:"New origin city, or null to keep the current value" validate:"omitempty,notblank"`
	ReturnPlace    *string `json:"returnPlace" nullable:"true" description:"New destination city, or null to keep the current value" validate:"omitempty,notblank"`
	DepartureDate  *string `json:"departureDate" nullable:"true" description:"New departure date YYYY-MM-DD, or null to keep the current value" validate:"omitempty,isodate"`
	ReturnDate     *string `json:"returnDate" nullable:"true" description:"New return date YYYY-MM-DD, or null to keep the current value" validate:"omitempty,isodate"`
}

// Empty reports whether no field carries a change.
func (u *FormUpdates) Empty() bool {
	return u == nil ||
		(u.DeparturePlace == nil && u.ReturnPlace == nil && u.DepartureDate == nil && u.ReturnDate == nil)
}

type ChatMessage struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// Flight is one itinerary option. Immutable once produced.
type Flight struct {
	ID            string  `json:"id" validate:"required"`
	Airline       string  `json:"airline" validate:"required"`
	FlightNumber  string  `json:"flightNumber"`
	DepartureTime string  `json:"departureTime" validate:"required,isodate"`
	ArrivalTime   string  `json:"arrivalTime" validate:"required,isodate"`
	Price         float64 `json:"price" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops" validate:"gte=0"`
}

type SuggestedFilter struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Prompt      string `json:"prompt"`
	Description string `json:"description,omitempty"`
}

// SearchRequestEnvelope is the full request payload. Flights optionally
// carries the client's last known result set for chat follow-ups.
type SearchRequestEnvelope struct {
	SessionID string        `json:"sessionId" validate:"required"`
	FormData  FormData      `json:"formData"`
	Messages  []ChatMessage `json:"messages" validate:"dive"`
	Trigger   Trigger       `json:"trigger" validate:"required,oneof=search chat"`
	Flights   []Flight      `json:"flights,omitempty" validate:"omitempty,dive"`
}

type SearchResponseEnvelope struct {
	SessionID        string            `json:"sessionId"`
	Messages         []ChatMessage     `json:"messages"`
	Flights          []Flight          `json:"flights"`
	SuggestedFilters []SuggestedFilter `json:"suggestedFilters"`
	FormUpdates      *FormUpdates      `json:"formUpdates"`
}

// FlightSearchParams follows the Tequila search parameter schema. It is
// both the structured-generation target and the provider input.
type FlightSearchParams struct {
	FlyFrom        string `json:"fly_from" description:"Origin city" validate:"required,notblank"`
	FlyTo          string `json:"fly_to" description:"Destination city" validate:"required,notblank"`
	DepartAfter    string `json:"depart_after,omitempty" description:"Departure datetime from (YYYY-MM-DDThh:mm)" validate:"omitempty,isodate"`
	DepartBefore   string `json:"depart_before,omitempty" description:"Departure datetime to (YYYY-MM-DDThh:mm)" validate:"omitempty,isodate"`
	RtDepartAfter  string `json:"rt_depart_after,omitempty" description:"Return departure datetime from (YYYY-MM-DDThh:mm)" validate:"omitempty,isodate"`
	RtDepartBefore string `json:"rt_depart_before,omitempty" description:"Return departure datetime to (YYYY-MM-DDThh:mm)" validate:"omitempty,isodate"`
	Adults         int    `json:"adults" description:"Number of adult passengers" validate:"gte=1,lte=9"`
	Children       int    `json:"children" description:"Number of child passengers" validate:"gte=0,lte=9"`
	Infants        int    `json:"infants" description:"Number of infant passengers" validate:"gte=0,lte=9"`
	SelectedCabins string `json:"selected_cabins" enum:"M,W,C,F" description:"Preferred cabin class" validate:"oneof=M W C F"`
	Curr           string `json:"curr" description:"Currency for prices in response" validate:"required,len=3"`
	Locale         string `json:"locale,omitempty" description:"Language for city names and deeplinks"`
	MaxStopovers   *int   `json:"max_stopovers,omitempty" description:"Maximum number of stopovers allowed" validate:"omitempty,gte=0"`
	VehicleType    string `json:"vehicle_type" enum:"aircraft,bus,train" description:"Type of transport vehicle" validate:"oneof=aircraft bus train"`
	Sort           string `json:"sort" enum:"price,quality,duration,date,popularity" description:"Sort results by specified criteria" validate:"oneof=price quality duration date popularity"`
}

// applyDefaults fills the fields a model commonly leaves empty.
func (p *FlightSearchParams) applyDefaults() {
	if p.Adults == 0 {
		p.Adults = 1
	}
	if p.SelectedCabins == "" {
		p.SelectedCabins = "M"
	}
	if p.Curr == "" {
		p.Curr = "USD"
	}
	if p.VehicleType == "" {
		p.VehicleType = "aircraft"
	}
	if p.Sort == "" {
		p.Sort = "price"
	}
}

// suggestedFilterSet is the structured-generation target for filter
// suggestions; ids are assigned server side.
type suggestedFilterSet struct {
	Filters []suggestedFilterDraft `json:"filters" description:"Refinement filters relevant to the flights provided"`
}

type suggestedFilterDraft struct {
	Label       string `json:"label" description:"Short display text, e.g. Non-stop flights only" validate:"required,notblank,max=60"`
	Prompt      string `json:"prompt" description:"Chat message sent when clicked, e.g. Search for non-stop flights only" validate:"required,notblank"`
	Description string `json:"description,omitempty" description:"Optional longer explanation"`
}
