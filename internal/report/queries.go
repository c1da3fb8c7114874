package report

// The fixed analytical query set run against the target star schema.
// These are the business questions the centralised data exists to
// answer; each constant is paired with a typed row in report.go.

const storesPerCountryQuery = `
SELECT country_code AS country,
       COUNT(*) AS total_no_stores
FROM dim_store_details
GROUP BY country_code
ORDER BY total_no_stores DESC`

const topLocalitiesQuery = `
SELECT locality,
       COUNT(*) AS total_no_stores
FROM dim_store_details
WHERE locality IS NOT NULL
GROUP BY locality
ORDER BY total_no_stores DESC, locality
LIMIT 7`

const monthlySalesQuery = `
SELECT ROUND(SUM(o.product_quantity * p.product_price), 2) AS total_sales,
       d.month
FROM orders_table o
JOIN dim_date_times d ON d.date_uuid = o.date_uuid
JOIN dim_products p ON p.product_code = o.product_code
GROUP BY d.month
ORDER BY total_sales DESC
LIMIT 6`

const onlineOfflineQuery = `
SELECT CASE WHEN s.store_type = 'Web Portal' THEN 'Web' ELSE 'Offline' END AS location,
       COUNT(*) AS numbers_of_sales,
       SUM(o.product_quantity) AS product_quantity_count
FROM orders_table o
JOIN dim_store_details s ON s.store_code = o.store_code
GROUP BY location
ORDER BY location DESC`

const storeTypePercentageQuery = `
SELECT s.store_type,
       ROUND(SUM(o.product_quantity * p.product_price), 2) AS total_sales,
       ROUND(100.0 * SUM(o.product_quantity * p.product_price)
             / SUM(SUM(o.product_quantity * p.product_price)) OVER (), 2) AS percentage_total
FROM orders_table o
JOIN dim_store_details s ON s.store_code = o.store_code
JOIN dim_products p ON p.product_code = o.product_code
GROUP BY s.store_type
ORDER BY total_sales DESC`

const bestMonthsQuery = `
SELECT ROUND(SUM(o.product_quantity * p.product_price), 2) AS total_sales,
       d.year,
       d.month
FROM orders_table o
JOIN dim_date_times d ON d.date_uuid = o.date_uuid
JOIN dim_products p ON p.product_code = o.product_code
GROUP BY d.year, d.month
ORDER BY total_sales DESC
LIMIT 10`

const staffHeadcountQuery = `
SELECT SUM(staff_numbers) AS total_staff_numbers,
       country_code
FROM dim_store_details
GROUP BY country_code
ORDER BY total_staff_numbers DESC`

const germanSalesQuery = `
SELECT ROUND(SUM(o.product_quantity * p.product_price), 2) AS total_sales,
       s.store_type,
       s.country_code
FROM orders_table o
JOIN dim_store_details s ON s.store_code = o.store_code
JOIN dim_products p ON p.product_code = o.product_code
WHERE s.country_code = 'DE'
GROUP BY s.store_type, s.country_code
ORDER BY total_sales`

const saleIntervalsQuery = `
WITH sale_times AS (
    SELECT year,
           make_timestamp(year::int, month::int, day::int,
                          EXTRACT(HOUR FROM event_time)::int,
                          EXTRACT(MINUTE FROM event_time)::int,
                          EXTRACT(SECOND FROM event_time)::double precision) AS sale_at
    FROM dim_date_times
),
gaps AS (
    SELECT year,
           LEAD(sale_at) OVER (PARTITION BY year ORDER BY sale_at) - sale_at AS gap
    FROM sale_times
)
SELECT year,
       AVG(EXTRACT(EPOCH FROM gap))::double precision AS avg_gap_seconds
FROM gaps
WHERE gap IS NOT NULL
GROUP BY year
ORDER BY avg_gap_seconds DESC
LIMIT 10`
