package storage

import (
	"errors"

	"gorm.io/gorm"

	"clipforge/internal/types"
)

var ErrNotInitialized = errors.New("database not initialized")

// CreateJob inserts a new job record. JobId must be unique.
func CreateJob(job *types.ClipJob) error {
	if DB == nil {
		return ErrNotInitialized
	}
	return DB.Create(job).Error
}

// SaveJob upserts a job by its JobId, preserving the primary key on update.
func SaveJob(job *types.ClipJob) error {
	if DB == nil {
		return ErrNotInitialized
	}
	var existing types.ClipJob
	result := DB.Where("job_id = ?", job.JobId).First(&existing)

	if result.Error == nil {
		job.Id = existing.Id
		return DB.Omit("Clips").Save(job).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(job).Error
	}
	return result.Error
}

// GetJob loads a job with its clips ordered by ascending start time.
func GetJob(jobId string) (*types.ClipJob, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	var job types.ClipJob
	err := DB.Preload("Clips", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_sec asc")
	}).Where("job_id = ?", jobId).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateClips records all of a job's clips in one transaction so a reader
// never observes a partially written clip set.
func CreateClips(jobId string, clips []types.Clip) error {
	if DB == nil {
		return ErrNotInitialized
	}
	if len(clips) == 0 {
		return nil
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		for i := range clips {
			clips[i].JobId = jobId
		}
		return tx.Create(&clips).Error
	})
}

// GetClip loads a single clip by its in-job id.
func GetClip(jobId string, clipId int) (*types.Clip, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	var clip types.Clip
	if err := DB.Where("job_id = ? AND clip_id = ?", jobId, clipId).First(&clip).Error; err != nil {
		return nil, err
	}
	return &clip, nil
}

// GetClipsByJob returns the job's clips sorted by ascending start time
// regardless of insertion order.
func GetClipsByJob(jobId string) ([]types.Clip, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	var clips []types.Clip
	err := DB.Where("job_id = ?", jobId).Order("start_sec asc").Find(&clips).Error
	return clips, err
}

// SetClipArtifact records the rendered artifact reference for a clip.
func SetClipArtifact(jobId string, clipId int, artifactPath, aspect, quality string) error {
	if DB == nil {
		return ErrNotInitialized
	}
	return DB.Model(&types.Clip{}).
		Where("job_id = ? AND clip_id = ?", jobId, clipId).
		Updates(map[string]any{
			"artifact_path":    artifactPath,
			"artifact_aspect":  aspect,
			"artifact_quality": quality,
		}).Error
}

// GetJobHistory returns recent jobs, newest first.
func GetJobHistory(limit int) ([]types.ClipJob, error) {
	if DB == nil {
		return nil, ErrNotInitialized
	}
	var jobs []types.ClipJob
	err := DB.Preload("Clips", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_sec asc")
	}).Order("create_time desc").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// DeleteJob removes a job and its clips. The pipeline never calls this; it
// exists for the external shell's cleanup endpoints.
func DeleteJob(jobId string) error {
	if DB == nil {
		return ErrNotInitialized
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobId).Delete(&types.Clip{}).Error; err != nil {
			return err
		}
		return tx.Where("job_id = ?", jobId).Delete(&types.ClipJob{}).Error
	})
}

// MarkStaleJobs marks any job still processing as failed. Called at startup
// to clean up work interrupted by a restart.
func MarkStaleJobs() (int64, error) {
	if DB == nil {
		return 0, ErrNotInitialized
	}
	result := DB.Model(&types.ClipJob{}).
		Where("status = ?", types.JobStatusProcessing).
		Updates(map[string]any{
			"status":      types.JobStatusFailed,
			"stage":       types.JobStageFailed,
			"fail_reason": "job interrupted by server restart",
			"status_msg":  "interrupted",
		})
	return result.RowsAffected, result.Error
}
