// Package sqlinline keeps the SQL used by the PostgreSQL repositories as
// named constants so statements stay greppable and reviewable in one place.
package sqlinline

const QInsertJob = `--sql 6f1f2a6e-90cd-4be3-9a47-1df1c6f3c2a1
insert into jobs (id, source, record_id, opportunity, status, progress, attempts, errors, outputs, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

const QGetJob = `--sql 0c2b1d94-0b53-4deb-8f6e-7a86b9f2f913
select id, source, record_id, opportunity, status, progress, attempts, errors, outputs, created_at, updated_at, started_at
from jobs
where id = $1;
`

const QClaimJob = `--sql 4be0a2c7-16c3-4b7f-9a0e-2f4f5d8a1c55
update jobs
set status = 'RUNNING',
    attempts = attempts + 1,
    progress = 0.1,
    started_at = now(),
    updated_at = now()
where id = $1
  and status = 'QUEUED'
returning id, source, record_id, opportunity, status, progress, attempts, errors, outputs, created_at, updated_at, started_at;
`

const QUpdateJob = `--sql 9d7a3f11-52e4-4f43-b7d0-63f9b0a4e8d2
update jobs
set status = $2,
    progress = $3,
    attempts = $4,
    errors = $5,
    outputs = $6,
    started_at = $7,
    updated_at = now()
where id = $1;
`

const QPollQueuedJobs = `--sql 2b8af0d1-3c25-4a0f-9f62-8d0e4a7c31b9
select id
from jobs
where status = 'QUEUED'
  and (attempts = 0 or updated_at <= now() - make_interval(secs => $1))
order by created_at asc
limit $2;
`

const QCancelJob = `--sql e3a3c8b2-7f4d-4f7e-8a11-b2c5d4f6a9e7
update jobs
set status = 'FAILED',
    progress = 1.0,
    errors = $2,
    updated_at = now()
where id = $1
  and status = 'QUEUED'
returning id, source, record_id, opportunity, status, progress, attempts, errors, outputs, created_at, updated_at, started_at;
`
