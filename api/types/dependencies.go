package types

import (
	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/internal/database"
	"github.com/thanulingayath/reception-agent/internal/services/jobs"
	"github.com/thanulingayath/reception-agent/internal/services/pipeline"
	"github.com/thanulingayath/reception-agent/internal/services/records"
	"github.com/thanulingayath/reception-agent/internal/services/workers"
	"github.com/thanulingayath/reception-agent/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	RecordService records.Service
	JobService    jobs.Service
	Pipeline      *pipeline.Pipeline
	WorkerPool    *workers.WorkerPool
	Config        *config.Config
	Log           *logrus.Entry

	// UploadDir is where API uploads are staged before processing
	UploadDir string
}
