package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/query"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/internal/store/model"
)

const (
	insertJobStm          = "INSERT INTO jobs (id, status, dataset_id, filtering_algo_id, matching_algo_id, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s');"
	insertJobWithEmailStm = "INSERT INTO jobs (id, status, dataset_id, filtering_algo_id, matching_algo_id, notify_email, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s');"
)

var _ = Describe("job store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(testConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration()).To(BeNil())
		Expect(s.Seed()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from predictions;")
		gormdb.Exec("DELETE from results;")
		gormdb.Exec("DELETE from jobs;")
	})

	Context("create and get", func() {
		It("creates a job and reads it back with its catalog rows", func() {
			job := model.Job{
				ID:              uuid.New(),
				Status:          model.JobStatusPending,
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
			}
			created, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())
			Expect(created).ToNot(BeNil())

			got, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(model.JobStatusPending))
			Expect(got.Dataset).ToNot(BeNil())
			Expect(got.Dataset.Code).To(Equal("d1_fodors_zagats"))
			Expect(got.FilteringAlgo.Code).To(Equal("splitter_random"))
			Expect(got.MatchingAlgo.Code).To(Equal("deepmatcher"))
			Expect(got.Result).To(BeNil())
		})

		It("returns not found for a missing job", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("lists all jobs in creation order", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-02 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "pending", "d2_abt_buy", "splitter_random", "ditto", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter())
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].DatasetID).To(Equal("d2_abt_buy"))
		})

		It("filters by status and dataset", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "completed", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "completed", "d2_abt_buy", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByStatus("completed").ByDatasetID("d1_fodors_zagats"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal("completed"))
		})
	})

	Context("query", func() {
		It("pages with a total covering all matching rows", func() {
			for i := 0; i < 5; i++ {
				tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", fmt.Sprintf("2026-01-0%d 00:00:00", i+1)))
				Expect(tx.Error).To(BeNil())
			}

			plan := query.Jobs.Plan(api.QueryRequest{First: 2, Rows: 2})
			jobs, total, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(5)))
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].CreatedAt.Day()).To(Equal(3))
			Expect(jobs[1].CreatedAt.Day()).To(Equal(4))
		})

		It("applies filters to both page and total", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "completed", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-02 00:00:00"))
			Expect(tx.Error).To(BeNil())

			plan := query.Jobs.Plan(api.QueryRequest{
				Filters: map[string]api.FilterSpec{"status": {Value: "completed"}},
			})
			jobs, total, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(1)))
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal("completed"))
		})

		It("matches notify email substrings", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobWithEmailStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "alice@example.org", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobWithEmailStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "bob@example.org", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			plan := query.Jobs.Plan(api.QueryRequest{
				Filters: map[string]api.FilterSpec{"notifyEmail": {Value: "alice", MatchMode: "contains"}},
			})
			jobs, total, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(1)))
			Expect(*jobs[0].NotifyEmail).To(Equal("alice@example.org"))
		})

		It("does not treat like wildcards in the operand as wildcards", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobWithEmailStm, uuid.NewString(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "alice@example.org", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			plan := query.Jobs.Plan(api.QueryRequest{
				Filters: map[string]api.FilterSpec{"notifyEmail": {Value: "%", MatchMode: "contains"}},
			})
			_, total, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(0)))
		})

		It("matches params by canonical json equality", func() {
			jobA := model.Job{
				ID:              uuid.New(),
				Status:          model.JobStatusCompleted,
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
				FilteringParams: model.MakeJSONField(map[string]any{"recall": 0.9, "blocking": "knn"}),
			}
			_, err := s.Job().Create(context.TODO(), jobA)
			Expect(err).To(BeNil())

			jobB := model.Job{
				ID:              uuid.New(),
				Status:          model.JobStatusCompleted,
				DatasetID:       "d1_fodors_zagats",
				FilteringAlgoID: "splitter_random",
				MatchingAlgoID:  "deepmatcher",
				FilteringParams: model.MakeJSONField(map[string]any{"recall": 0.5}),
			}
			_, err = s.Job().Create(context.TODO(), jobB)
			Expect(err).To(BeNil())

			// filter keys arrive in a different order than the stored text
			plan := query.Jobs.Plan(api.QueryRequest{
				Filters: map[string]api.FilterSpec{
					"filteringParams": {Value: map[string]any{"blocking": "knn", "recall": 0.9}},
				},
			})
			jobs, total, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(1)))
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(jobA.ID))
		})

		It("breaks sort-key ties by insertion order", func() {
			older := "ffffffff-ffff-ffff-ffff-ffffffffffff"
			newer := "00000000-0000-0000-0000-000000000001"
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, older, "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, newer, "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-02 00:00:00"))
			Expect(tx.Error).To(BeNil())

			// both jobs tie on the sort key; the earlier-created one wins
			// even though its id sorts last
			plan := query.Jobs.Plan(api.QueryRequest{SortField: "status"})
			jobs, _, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].ID.String()).To(Equal(older))
			Expect(jobs[1].ID.String()).To(Equal(newer))
		})

		It("breaks created_at ties deterministically", func() {
			idA := "11111111-1111-1111-1111-111111111111"
			idB := "22222222-2222-2222-2222-222222222222"
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, idB, "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, idA, "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			plan := query.Jobs.Plan(api.QueryRequest{})
			jobs, _, err := s.Job().Query(context.TODO(), plan)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].ID.String()).To(Equal(idA))
			Expect(jobs[1].ID.String()).To(Equal(idB))
		})
	})

	Context("update status", func() {
		It("updates the status and keeps untouched handles", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID.String(), "pending", "d1_fodors_zagats", "splitter_random", "deepmatcher", "2026-01-01 00:00:00"))
			Expect(tx.Error).To(BeNil())

			slurmID := "slurm-42"
			_, err := s.Job().UpdateStatus(context.TODO(), jobID, "filtering", &slurmID, nil)
			Expect(err).To(BeNil())

			got, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal("filtering"))
			Expect(*got.FilteringSlurmID).To(Equal("slurm-42"))
			Expect(got.MatchingSlurmID).To(BeNil())

			_, err = s.Job().UpdateStatus(context.TODO(), jobID, "matching", nil, nil)
			Expect(err).To(BeNil())

			got, err = s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal("matching"))
			Expect(*got.FilteringSlurmID).To(Equal("slurm-42"))
		})

		It("returns not found for a missing job", func() {
			_, err := s.Job().UpdateStatus(context.TODO(), uuid.New(), "queued", nil, nil)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
