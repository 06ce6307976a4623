package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// TimeTracking is one console occupancy interval. Dates are epoch millis.
type TimeTracking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	ControlCenterID string             `bson:"controlCenterId" json:"controlCenterId"`
	StartDate       int64              `bson:"startDate" json:"startDate"`
	EndDate         *int64             `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Finished        bool               `bson:"finished" json:"finished"`
}

// Duration returns the tracked millis of a finished interval.
func (t TimeTracking) Duration() int64 {
	if !t.Finished || t.EndDate == nil {
		return 0
	}
	return *t.EndDate - t.StartDate
}

// Within reports whether a finished interval lies entirely inside [start, end].
func (t TimeTracking) Within(start, end int64) bool {
	return t.Finished && t.EndDate != nil && t.StartDate >= start && *t.EndDate <= end
}
