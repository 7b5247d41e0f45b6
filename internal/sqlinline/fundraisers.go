package sqlinline

const QInsertFundraiser = `--sql 94db62a3-8738-4184-aa65-75ae041d677f
insert into fundraisers(id, user_id, name, description, end_date, target_funds, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::date, $6::numeric, now());
`

const QSelectFundraiserByID = `--sql 6cfeeec5-d5ea-4e4f-97b4-40c51e62877f
select id, user_id, name, description, end_date, target_funds::text, created_at
from fundraisers
where id = $1::uuid;
`

const QSelectFundraiserByUser = `--sql a5b2ec2e-2c5a-439e-8bf4-2ad20cc873b4
select id, user_id, name, description, end_date, target_funds::text, created_at
from fundraisers
where user_id = $1::uuid;
`

const QFundsRaised = `--sql bc47b802-3807-460f-8083-77d0ec6c10bd
select coalesce(sum(amount), 0)::text
from contributions
where fundraiser_id = $1::uuid;
`

const QDeleteContributionsByFundraiser = `--sql f8a515ec-4175-4ebd-a674-0ad8802aed85
delete from contributions
where fundraiser_id = $1::uuid;
`

const QDeleteFundraiser = `--sql 368230b5-1771-44a1-88d5-a0ca7d4baafb
delete from fundraisers
where id = $1::uuid;
`
