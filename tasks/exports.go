package tasks

import (
  "time"

  "github.com/hibiken/asynq"
  "github.com/rs/zerolog/log"

  "scraper.local/tweets-fetcher/common"
  "scraper.local/tweets-fetcher/config"
  "scraper.local/tweets-fetcher/queue/asynq/jobs"
  "scraper.local/tweets-fetcher/tweets"
)

type ExportsTask struct {
  Job         *jobs.Tweets
  AnsqContext *common.AnsqClientContext
}

func NewExportsTask(ansqContext *common.AnsqClientContext) *ExportsTask {
  return &ExportsTask{
    Job:         &jobs.Tweets{},
    AnsqContext: ansqContext,
  }
}

// Enqueue queues one export of params. Duplicates of a pending export for
// the same input are rejected by asynq within unique.
func (t *ExportsTask) Enqueue(params *tweets.Params, unique time.Duration) (*asynq.TaskInfo, error) {
  job, err := t.Job.Export(params)
  if err != nil {
    return nil, err
  }
  opts := []asynq.Option{
    asynq.Queue(config.ASYNQ_QUEUE_TWEETS),
    asynq.MaxRetry(3),
    asynq.Timeout(5 * time.Minute),
  }
  if unique > 0 {
    opts = append(opts, asynq.Unique(unique))
  }
  return t.AnsqContext.Conn.EnqueueContext(t.AnsqContext.Ctx, job, opts...)
}

// Process enqueues an export for every input using template for the rest
// of the parameters.
func (t *ExportsTask) Process(inputs []string, template *tweets.Params) (count int) {
  log.Info().Int("users", len(inputs)).Msg("tasks exports process")
  for _, input := range inputs {
    params := *template
    params.UsernameOrUrl = input
    params.Output = ""
    if _, err := t.Enqueue(&params, 10*time.Minute); err != nil {
      log.Warn().Err(err).Str("input", input).Msg("export enqueue failed")
      continue
    }
    count++
  }
  return
}
