package community

import (
	"time"

	"github.com/keralasamajam/community-hub/internal/domain"
	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// Row values arrive normalized by the store port (see store.NormalizeValue):
// Text columns are string or nil, Int are int64, Numeric are float64, Date are
// ISO strings and Timestamp are UTC time.Time. The helpers below decode that
// shape and nothing else.

func rowString(row store.Row, col string) string {
	s, _ := row[col].(string)
	return s
}

func rowOptString(row store.Row, col string) *string {
	s, ok := row[col].(string)
	if !ok {
		return nil
	}
	return &s
}

func rowOptInt(row store.Row, col string) *int {
	n, ok := row[col].(int64)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func rowInt(row store.Row, col string) int {
	n, _ := row[col].(int64)
	return int(n)
}

func rowFloat(row store.Row, col string) float64 {
	f, _ := row[col].(float64)
	return f
}

func rowTime(row store.Row, col string) time.Time {
	ts, _ := row[col].(time.Time)
	return ts
}

func rowToMember(row store.Row) domain.Member {
	return domain.Member{
		ID:         domain.ID(rowString(row, "id")),
		FullName:   rowString(row, "full_name"),
		Email:      rowString(row, "email"),
		Mobile:     rowString(row, "mobile"),
		Country:    rowString(row, "country"),
		Occupation: rowString(row, "occupation"),
		SpouseName: rowOptString(row, "spouse_name"),
		Address:    rowOptString(row, "address"),
		District:   rowOptString(row, "district"),
		Pincode:    rowOptString(row, "pincode"),
		CreatedAt:  rowTime(row, "created_at"),
	}
}

func rowToDependent(row store.Row) domain.Dependent {
	return domain.Dependent{
		ID:       domain.ID(rowString(row, "id")),
		MemberID: domain.ID(rowString(row, "member_id")),
		Name:     rowString(row, "name"),
		Age:      rowOptInt(row, "age"),
		School:   rowOptString(row, "school"),
	}
}

func rowToEvent(row store.Row) domain.Event {
	return domain.Event{
		ID:          domain.ID(rowString(row, "id")),
		Name:        rowString(row, "name"),
		Date:        rowString(row, "date"),
		Venue:       rowString(row, "venue"),
		AdultRate:   rowFloat(row, "adult_rate"),
		KidsRate:    rowFloat(row, "kids_rate"),
		Description: rowString(row, "description"),
	}
}

func rowToRegistration(row store.Row) domain.Registration {
	return domain.Registration{
		ID:           domain.ID(rowString(row, "id")),
		MemberID:     domain.ID(rowString(row, "member_id")),
		EventID:      domain.ID(rowString(row, "event_id")),
		EventName:    rowString(row, "event_name"),
		EventDate:    rowString(row, "event_date"),
		EventVenue:   rowString(row, "event_venue"),
		Adults:       rowInt(row, "adults"),
		Kids:         rowInt(row, "kids"),
		TotalAmount:  rowFloat(row, "total_amount"),
		PaidAmount:   rowFloat(row, "paid_amount"),
		Status:       rowString(row, "status"),
		RegisteredAt: rowTime(row, "registered_at"),
	}
}

func optStringValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func optIntValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
