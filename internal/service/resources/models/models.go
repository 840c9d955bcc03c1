package models

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Request модели

// CreateResourceRequest запрос на создание ресурса
type CreateResourceRequest struct {
	Name                string                     `json:"name"`
	Type                string                     `json:"type"`
	Description         *string                    `json:"description,omitempty"`
	Location            *string                    `json:"location,omitempty"`
	Capacity            int                        `json:"capacity"`
	Timezone            *string                    `json:"timezone,omitempty"`
	WeeklyAvailability  domain.WeeklyAvailability  `json:"weeklyAvailability"`
	BookingRestrictions domain.BookingRestrictions `json:"bookingRestrictions"`
	RequiresApproval    bool                       `json:"requiresApproval"`
	MaxBookingHours     int                        `json:"maxBookingHours"`
}

// ToDomainResource конвертирует запрос в domain модель, подставляя значения по умолчанию
func (r *CreateResourceRequest) ToDomainResource() *domain.Resource {
	res := &domain.Resource{
		Name:                r.Name,
		Type:                domain.ResourceType(r.Type),
		Description:         r.Description,
		Location:            r.Location,
		Capacity:            r.Capacity,
		Timezone:            r.Timezone,
		WeeklyAvailability:  r.WeeklyAvailability,
		BookingRestrictions: r.BookingRestrictions,
		RequiresApproval:    r.RequiresApproval,
		MaxBookingHours:     r.MaxBookingHours,
		IsActive:            true,
	}
	if res.WeeklyAvailability == nil {
		res.WeeklyAvailability = domain.WeeklyAvailability{}
	}
	if res.BookingRestrictions.AdvanceBookingDays == 0 {
		res.BookingRestrictions.AdvanceBookingDays = domain.DefaultAdvanceBookingDays
	}
	if res.BookingRestrictions.MaxConcurrentBookings == 0 {
		res.BookingRestrictions.MaxConcurrentBookings = domain.DefaultMaxConcurrentBookings
	}
	if res.MaxBookingHours == 0 {
		res.MaxBookingHours = domain.DefaultMaxBookingHours
	}
	return res
}

// UpdateResourceRequest частичное обновление ресурса (nil = не менять)
type UpdateResourceRequest struct {
	Name                *string                     `json:"name,omitempty"`
	Type                *string                     `json:"type,omitempty"`
	Description         *string                     `json:"description,omitempty"`
	Location            *string                     `json:"location,omitempty"`
	Capacity            *int                        `json:"capacity,omitempty"`
	Timezone            *string                     `json:"timezone,omitempty"`
	WeeklyAvailability  domain.WeeklyAvailability   `json:"weeklyAvailability,omitempty"`
	BookingRestrictions *domain.BookingRestrictions `json:"bookingRestrictions,omitempty"`
	RequiresApproval    *bool                       `json:"requiresApproval,omitempty"`
	MaxBookingHours     *int                        `json:"maxBookingHours,omitempty"`
	IsActive            *bool                       `json:"isActive,omitempty"`
}

// ApplyToResource применяет изменения к ресурсу
func (r *UpdateResourceRequest) ApplyToResource(res *domain.Resource) {
	if r.Name != nil {
		res.Name = *r.Name
	}
	if r.Type != nil {
		res.Type = domain.ResourceType(*r.Type)
	}
	if r.Description != nil {
		res.Description = r.Description
	}
	if r.Location != nil {
		res.Location = r.Location
	}
	if r.Capacity != nil {
		res.Capacity = *r.Capacity
	}
	if r.Timezone != nil {
		res.Timezone = r.Timezone
	}
	if r.WeeklyAvailability != nil {
		res.WeeklyAvailability = r.WeeklyAvailability
	}
	if r.BookingRestrictions != nil {
		res.BookingRestrictions = *r.BookingRestrictions
	}
	if r.RequiresApproval != nil {
		res.RequiresApproval = *r.RequiresApproval
	}
	if r.MaxBookingHours != nil {
		res.MaxBookingHours = *r.MaxBookingHours
	}
	if r.IsActive != nil {
		res.IsActive = *r.IsActive
	}
}

// ListResourcesRequest фильтр списка ресурсов
type ListResourcesRequest struct {
	Type            *string
	IncludeInactive bool // учитывается только для администратора
	Page            int
	Limit           int
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID                  int64                      `json:"id"`
	Name                string                     `json:"name"`
	Type                string                     `json:"type"`
	Description         *string                    `json:"description,omitempty"`
	Location            *string                    `json:"location,omitempty"`
	Capacity            int                        `json:"capacity"`
	Timezone            *string                    `json:"timezone,omitempty"`
	WeeklyAvailability  domain.WeeklyAvailability  `json:"weeklyAvailability"`
	BookingRestrictions domain.BookingRestrictions `json:"bookingRestrictions"`
	RequiresApproval    bool                       `json:"requiresApproval"`
	MaxBookingHours     int                        `json:"maxBookingHours"`
	IsActive            bool                       `json:"isActive"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}
	return &ResourceResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Type:                string(r.Type),
		Description:         r.Description,
		Location:            r.Location,
		Capacity:            r.Capacity,
		Timezone:            r.Timezone,
		WeeklyAvailability:  r.WeeklyAvailability,
		BookingRestrictions: r.BookingRestrictions,
		RequiresApproval:    r.RequiresApproval,
		MaxBookingHours:     r.MaxBookingHours,
		IsActive:            r.IsActive,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{Resources: make([]ResourceResponse, 0, len(resources))}
	for _, r := range resources {
		resp.Resources = append(resp.Resources, *FromDomainResource(r))
	}
	return resp
}
