package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/models"
)

const reportContentType = "application/json"

// ReportArchive keeps seller risk assessments as JSON documents in an object store
type ReportArchive struct {
	store  ObjectStore
	prefix string
	expiry time.Duration
}

// NewReportArchive creates an archive rooted at prefix. expiry bounds presigned links.
func NewReportArchive(store ObjectStore, prefix string, expiry time.Duration) *ReportArchive {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &ReportArchive{store: store, prefix: prefix, expiry: expiry}
}

// Key returns the object key of one assessment report
func (a *ReportArchive) Key(sellerID string, assessmentID uuid.UUID) string {
	return path.Join(a.prefix, "sellers", url.PathEscape(sellerID), assessmentID.String()+".json")
}

// Archive uploads the assessment as a report
func (a *ReportArchive) Archive(ctx context.Context, assessment *models.SellerRiskAssessment) (*UploadResult, error) {
	body, err := json.Marshal(assessment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return a.store.Upload(ctx, a.Key(assessment.SellerID, assessment.ID), body, reportContentType)
}

// ReportURL returns a presigned link to an archived report, or ErrNotFound
func (a *ReportArchive) ReportURL(ctx context.Context, sellerID string, assessmentID uuid.UUID) (*PresignedURL, error) {
	key := a.Key(sellerID, assessmentID)
	exists, err := a.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return a.store.PresignedDownloadURL(ctx, key, a.expiry)
}
