package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/notify"
	"github.com/erbench/erbench/internal/service"
	"github.com/erbench/erbench/internal/service/mappers"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/internal/store/model"
)

var _ = Describe("job service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.JobService
	)

	BeforeAll(func() {
		db, err := store.InitDB(testConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration()).To(BeNil())
		Expect(s.Seed()).To(BeNil())

		srv = service.NewJobService(s, notify.NewLogNotifier(), nil)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from predictions;")
		gormdb.Exec("DELETE from results;")
		gormdb.Exec("DELETE from jobs;")
	})

	completedJob := func(filteringParams, matchingParams map[string]any) *model.Job {
		job := model.Job{
			ID:              uuid.New(),
			Status:          model.JobStatusCompleted,
			DatasetID:       "d1_fodors_zagats",
			FilteringAlgoID: "splitter_random",
			MatchingAlgoID:  "deepmatcher",
		}
		if len(filteringParams) > 0 {
			job.FilteringParams = model.MakeJSONField(filteringParams)
		}
		if len(matchingParams) > 0 {
			job.MatchingParams = model.MakeJSONField(matchingParams)
		}
		created, err := s.Job().Create(context.TODO(), job)
		Expect(err).To(BeNil())
		return created
	}

	Context("submit", func() {
		It("rejects a submission without a dataset", func() {
			_, _, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			})
			missing := &service.ErrMissingField{}
			Expect(err).To(BeAssignableToTypeOf(missing))
		})

		It("creates a pending job", func() {
			created, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			})
			Expect(err).To(BeNil())
			Expect(matches).To(BeNil())
			Expect(created.Status).To(Equal(model.JobStatusPending))
		})

		It("returns the completed duplicate instead of creating", func() {
			existing := completedJob(map[string]any{"recall": 0.9}, map[string]any{"epochs": 10})

			created, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				FilteringParams: map[string]any{"recall": 0.9},
				MatchingAlgoID:  "deepmatcher",
				MatchingParams:  map[string]any{"epochs": 10},
			})
			Expect(err).To(BeNil())
			Expect(created).To(BeNil())
			Expect(matches).To(HaveLen(1))
			Expect(matches[0].ID).To(Equal(existing.ID))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("matches regardless of parameter key order", func() {
			completedJob(map[string]any{"a": 1.0, "b": 2.0}, nil)

			_, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				FilteringParams: map[string]any{"b": 2.0, "a": 1.0},
				MatchingAlgoID:  "deepmatcher",
			})
			Expect(err).To(BeNil())
			Expect(matches).To(HaveLen(1))
		})

		It("treats absent and empty parameter maps as equal", func() {
			completedJob(nil, nil)

			_, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				FilteringParams: map[string]any{},
				MatchingAlgoID:  "deepmatcher",
			})
			Expect(err).To(BeNil())
			Expect(matches).To(HaveLen(1))
		})

		It("creates when the parameters differ", func() {
			completedJob(map[string]any{"recall": 0.9}, nil)

			created, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				FilteringParams: map[string]any{"recall": 0.5},
				MatchingAlgoID:  "deepmatcher",
			})
			Expect(err).To(BeNil())
			Expect(matches).To(BeNil())
			Expect(created).ToNot(BeNil())
		})

		It("ignores non-completed duplicates", func() {
			job := model.Job{
				ID:              uuid.New(),
				Status:          model.JobStatusMatching,
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			}
			_, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())

			created, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			})
			Expect(err).To(BeNil())
			Expect(matches).To(BeNil())
			Expect(created).ToNot(BeNil())
		})

		It("creates anyway when forced", func() {
			completedJob(nil, nil)

			created, matches, err := srv.Submit(context.TODO(), mappers.SubmitForm{
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
				Force:           true,
			})
			Expect(err).To(BeNil())
			Expect(matches).To(BeNil())
			Expect(created).ToNot(BeNil())
		})
	})

	Context("set status", func() {
		var jobID uuid.UUID

		BeforeEach(func() {
			job := model.Job{
				ID:              uuid.New(),
				Status:          model.JobStatusPending,
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			}
			created, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())
			jobID = created.ID
		})

		It("rejects an unknown status", func() {
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: "paused"})
			invalid := &service.ErrInvalidStatus{}
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})

		It("rejects a missing job", func() {
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: uuid.New(), Status: model.JobStatusQueued})
			notFound := &service.ErrResourceNotFound{}
			Expect(err).To(BeAssignableToTypeOf(notFound))
		})

		It("walks the lifecycle forward", func() {
			for _, status := range []string{"queued", "filtering", "matching", "completed"} {
				job, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: status})
				Expect(err).To(BeNil())
				Expect(job.Status).To(Equal(status))
			}
		})

		It("allows skipping intermediate states", func() {
			job, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusFailed})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusFailed))
		})

		It("rejects backward transitions", func() {
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusMatching})
			Expect(err).To(BeNil())

			_, err = srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusQueued})
			invalid := &service.ErrInvalidTransition{}
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})

		It("rejects leaving a terminal state", func() {
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusCompleted})
			Expect(err).To(BeNil())

			_, err = srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusFailed})
			invalid := &service.ErrInvalidTransition{}
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})

		It("accepts re-applying the current status", func() {
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusCompleted})
			Expect(err).To(BeNil())

			job, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{JobID: jobID, Status: model.JobStatusCompleted})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusCompleted))
		})

		It("merges metrics reported at matching and completed", func() {
			result, fields := mappers.ResultForm(jobID, api.UpdateJobResultRequest{
				Status:      model.JobStatusMatching,
				FilteringF1: ptr(0.8),
			})
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{
				JobID: jobID, Status: model.JobStatusMatching, Result: result, ResultFields: fields,
			})
			Expect(err).To(BeNil())

			result, fields = mappers.ResultForm(jobID, api.UpdateJobResultRequest{
				Status: model.JobStatusCompleted,
				F1:     ptr(0.9),
			})
			_, err = srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{
				JobID: jobID, Status: model.JobStatusCompleted, Result: result, ResultFields: fields,
			})
			Expect(err).To(BeNil())

			stored, err := srv.GetResult(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(*stored.FilteringF1).To(Equal(0.8))
			Expect(*stored.F1).To(Equal(0.9))
		})

		It("keeps stored metrics when the final update reports none", func() {
			result, fields := mappers.ResultForm(jobID, api.UpdateJobResultRequest{
				Status: model.JobStatusMatching,
				F1:     ptr(0.42),
			})
			_, err := srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{
				JobID: jobID, Status: model.JobStatusMatching, Result: result, ResultFields: fields,
			})
			Expect(err).To(BeNil())

			_, err = srv.SetStatus(context.TODO(), mappers.StatusUpdateForm{
				JobID: jobID, Status: model.JobStatusCompleted,
			})
			Expect(err).To(BeNil())

			stored, err := srv.GetResult(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(*stored.F1).To(Equal(0.42))
		})
	})

	Context("results", func() {
		It("returns not found for a job without a result", func() {
			_, err := srv.GetResult(context.TODO(), uuid.New())
			notFound := &service.ErrResourceNotFound{}
			Expect(err).To(BeAssignableToTypeOf(notFound))
		})
	})

	Context("catalogs", func() {
		It("lists the seeded datasets and algorithms", func() {
			datasets, err := srv.ListDatasets(context.TODO())
			Expect(err).To(BeNil())
			Expect(len(datasets)).To(BeNumerically(">", 0))

			algorithms, err := srv.ListAlgorithms(context.TODO())
			Expect(err).To(BeNil())
			Expect(len(algorithms)).To(BeNumerically(">", 0))
		})
	})
})

func ptr(v float64) *float64 {
	return &v
}
