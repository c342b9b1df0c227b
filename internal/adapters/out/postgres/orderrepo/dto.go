// Package orderrepo persists order aggregates with GORM. The DTO layer maps
// the aggregate to a single orders row; the timeline travels as a JSONB
// column so a read restores the full history without a join.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackCode            string     `gorm:"type:varchar(32);uniqueIndex"`
	CustomerID           uuid.UUID  `gorm:"type:uuid;index"`
	CourierID            *uuid.UUID `gorm:"type:uuid;index"`
	OriginAddress        string
	DestinationAddress   string
	OriginLat            float64
	OriginLng            float64
	DestinationLat       float64
	DestinationLng       float64
	SizeClass            int
	WeightKg             float64
	DeclaredValueCents   int64 `gorm:"type:bigint"`
	Category             string
	Urgency              int
	PriceBaseCents       int64 `gorm:"type:bigint"`
	PriceDistanceCents   int64 `gorm:"type:bigint"`
	PriceSizeCents       int64 `gorm:"type:bigint"`
	PriceUrgencyCents    int64 `gorm:"type:bigint"`
	PriceInsuranceCents  int64 `gorm:"type:bigint"`
	PricePlatformCents   int64 `gorm:"type:bigint"`
	PriceTotalCents      int64 `gorm:"type:bigint"`
	Status               int   `gorm:"index"`
	Timeline             []TimelineEntryDTO `gorm:"serializer:json;type:jsonb"`
	PickupDeadline       time.Time
	DeliveryDeadline     time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// TimelineEntryDTO is one element of the serialized timeline column.
type TimelineEntryDTO struct {
	Status      int       `json:"status"`
	At          time.Time `json:"at"`
	Description string    `json:"description"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	timeline := make([]TimelineEntryDTO, 0, len(aggregate.Timeline()))
	for _, entry := range aggregate.Timeline() {
		dto := TimelineEntryDTO{
			Status:      int(entry.Status()),
			At:          entry.At(),
			Description: entry.Description(),
		}
		if p := entry.Point(); p != nil {
			lat, lng := p.Lat(), p.Lng()
			dto.Lat, dto.Lng = &lat, &lng
		}
		timeline = append(timeline, dto)
	}

	price := aggregate.Price()
	pkg := aggregate.Package()
	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		TrackCode:           aggregate.TrackCode(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		CourierID:           courierID,
		OriginAddress:       aggregate.OriginAddressID(),
		DestinationAddress:  aggregate.DestinationAddressID(),
		OriginLat:           aggregate.OriginPoint().Lat(),
		OriginLng:           aggregate.OriginPoint().Lng(),
		DestinationLat:      aggregate.DestinationPoint().Lat(),
		DestinationLng:      aggregate.DestinationPoint().Lng(),
		SizeClass:           int(pkg.SizeClass()),
		WeightKg:            pkg.WeightKg(),
		DeclaredValueCents:  pkg.DeclaredValue().Cents(),
		Category:            pkg.Category(),
		Urgency:             int(aggregate.Urgency()),
		PriceBaseCents:      price.Base().Cents(),
		PriceDistanceCents:  price.Distance().Cents(),
		PriceSizeCents:      price.Size().Cents(),
		PriceUrgencyCents:   price.Urgency().Cents(),
		PriceInsuranceCents: price.Insurance().Cents(),
		PricePlatformCents:  price.Platform().Cents(),
		PriceTotalCents:     price.Total().Cents(),
		Status:              int(aggregate.Status()),
		Timeline:            timeline,
		PickupDeadline:      aggregate.PickupDeadline(),
		DeliveryDeadline:    aggregate.DeliveryDeadline(),
		PickedUpAt:          aggregate.PickedUpAt(),
		DeliveredAt:         aggregate.DeliveredAt(),
	}
}

// toDomain converts a database row back into an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	originPoint, err := kernel.NewGeoPoint(dto.OriginLat, dto.OriginLng)
	if err != nil {
		return nil, err
	}
	destinationPoint, err := kernel.NewGeoPoint(dto.DestinationLat, dto.DestinationLng)
	if err != nil {
		return nil, err
	}

	declaredValue, err := kernel.NewMoneyFromCents(dto.DeclaredValueCents)
	if err != nil {
		return nil, err
	}
	pkg, err := order.NewPackage(order.SizeClass(dto.SizeClass), dto.WeightKg, declaredValue, dto.Category)
	if err != nil {
		return nil, err
	}

	price, err := restorePrice(dto)
	if err != nil {
		return nil, err
	}

	timeline := make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, entryDTO := range dto.Timeline {
		var point *kernel.GeoPoint
		if entryDTO.Lat != nil && entryDTO.Lng != nil {
			p, pointErr := kernel.NewGeoPoint(*entryDTO.Lat, *entryDTO.Lng)
			if pointErr != nil {
				return nil, pointErr
			}
			point = &p
		}
		entry, entryErr := order.NewTimelineEntry(
			order.Status(entryDTO.Status), entryDTO.At, entryDTO.Description, point)
		if entryErr != nil {
			return nil, entryErr
		}
		timeline = append(timeline, entry)
	}

	return order.RestoreOrder(
		id,
		dto.TrackCode,
		customerID,
		courierID,
		dto.OriginAddress, dto.DestinationAddress,
		originPoint, destinationPoint,
		pkg,
		order.Urgency(dto.Urgency),
		price,
		order.Status(dto.Status),
		timeline,
		dto.PickupDeadline, dto.DeliveryDeadline,
		dto.PickedUpAt, dto.DeliveredAt,
	)
}

func restorePrice(dto OrderDTO) (order.PriceBreakdown, error) {
	cents := []int64{
		dto.PriceBaseCents, dto.PriceDistanceCents, dto.PriceSizeCents,
		dto.PriceUrgencyCents, dto.PriceInsuranceCents, dto.PricePlatformCents,
		dto.PriceTotalCents,
	}
	amounts := make([]kernel.Money, 0, len(cents))
	for _, c := range cents {
		m, err := kernel.NewMoneyFromCents(c)
		if err != nil {
			return order.PriceBreakdown{}, err
		}
		amounts = append(amounts, m)
	}
	return order.RestorePriceBreakdown(
		amounts[0], amounts[1], amounts[2], amounts[3], amounts[4], amounts[5], amounts[6])
}
