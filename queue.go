/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package giv2giv

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/giv2giv/giv2giv/config"
	redis_db "github.com/giv2giv/giv2giv/internal/redis-db"
)

// dispatchRetryDelay spaces retry attempts so a gateway outage is not hammered.
const dispatchRetryDelay = 5 * time.Minute

// Queue enqueues dispatch retries for grants whose gateway call could not be
// completed. The task id is the grant id, so a grant is queued at most once
// no matter how many times its dispatch fails.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// queueDispatchRetry enqueues a retry task for a grant left in
// pending_approval by a retryable gateway failure.
func (q *Queue) queueDispatchRetry(grantID string) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(grantID)
	if err != nil {
		return err
	}
	taskOptions := []asynq.Option{
		asynq.TaskID(grantID),
		asynq.Queue(cfg.Queue.DispatchRetryQueue),
		asynq.ProcessIn(dispatchRetryDelay),
	}
	task := asynq.NewTask(cfg.Queue.DispatchRetryQueue, payload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued dispatch retry: %+v", grantID)
	return nil
}

// DispatchRetryHandler returns the asynq handler the worker process registers
// for the dispatch retry queue.
func (g *Giv2Giv) DispatchRetryHandler() func(ctx context.Context, task *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var grantID string
		if err := json.Unmarshal(task.Payload(), &grantID); err != nil {
			return err
		}
		return g.RetryPendingDispatch(ctx, grantID)
	}
}
