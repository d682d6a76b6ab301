package api

import (
	"github.com/lbmarketing/marketing-console/internal/core/domain"
	"github.com/lbmarketing/marketing-console/internal/core/ports"
)

// --- Wire response → domain / ports ---

func toDomainUser(r userResponse) domain.User {
	u := domain.User{
		ID:        r.ID,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		IsActive:  r.IsActive,
	}
	if r.FullName != nil {
		u.FullName = *r.FullName
	}
	return u
}

func toConnectionStatus(r platformStatusResponse) ports.ConnectionStatus {
	st := ports.ConnectionStatus{Connected: r.Connected}
	if r.Handle != nil {
		st.Handle = *r.Handle
	}
	return st
}

func toPostRecord(r postResponse) ports.PostRecord {
	rec := ports.PostRecord{
		ID:           r.ID,
		BusinessID:   r.BusinessID,
		CampaignID:   r.CampaignID,
		Platform:     r.Platform,
		Content:      r.Content,
		MediaAssetID: r.MediaAssetID,
		ScheduledAt:  r.ScheduledAt,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
	if r.ExternalPostID != nil {
		rec.ExternalPostID = *r.ExternalPostID
	}
	return rec
}

func toSocialProfileRecord(r socialProfileResponse) ports.SocialProfileRecord {
	rec := ports.SocialProfileRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		BusinessID: r.BusinessID,
		Platform:   r.Platform,
		Handle:     r.Handle,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	if r.ExternalID != nil {
		rec.ExternalID = *r.ExternalID
	}
	return rec
}

// --- Ports input → wire request ---

func toCreatePostRequest(in ports.CreatePostInput) createPostRequest {
	return createPostRequest{
		BusinessID:   in.BusinessID,
		Platform:     in.Platform,
		Content:      in.Content,
		ScheduledAt:  in.ScheduledAt,
		CampaignID:   in.CampaignID,
		MediaAssetID: in.MediaAssetID,
	}
}

func toCreateSocialProfileRequest(in ports.CreateSocialProfileInput) createSocialProfileRequest {
	return createSocialProfileRequest{
		UserID:     in.UserID,
		BusinessID: in.BusinessID,
		Platform:   in.Platform,
		Handle:     in.Handle,
		ExternalID: in.ExternalID,
	}
}
